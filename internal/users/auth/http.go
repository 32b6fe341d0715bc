// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/platform/constants"
	"github.com/rentiva/rentiva/internal/platform/middleware"
	requestutil "github.com/rentiva/rentiva/internal/platform/request"
	"github.com/rentiva/rentiva/internal/platform/respond"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (registration, login,
// logout, password change) and the session cookie choreography around them.
type Handler struct {
	authService  *Service
	secureCookie bool
}

// NewHandler constructs a new [Handler] with its service dependency.
// secureCookie should be true everywhere except local development.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{authService: service, secureCookie: secureCookie}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Authenticates and sets the session cookie.
//   - POST /logout          : Destroys the current session.
//   - GET  /me              : Returns the caller's profile.
//   - PUT  /me              : Updates the caller's profile.
//   - POST /change-password : Rotates the password and revokes all sessions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/token", handler.issueToken)
		r.Get("/me", handler.me)
		r.Put("/me", handler.updateProfile)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	VendorID    string `json:"vendor_id,omitempty"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists a
new customer or vendor profile.

Request:
  - Body: registerRequest (Username, Email, Password, DisplayName, Role, VendorID)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: Forbidden: Attempt to self-register a non-public role
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 32).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength).
		Required(FieldRole, input.Role).
		OneOf(FieldRole, input.Role, string(sec.RoleCustomer), string(sec.RoleVendor))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        sec.ParseRole(input.Role),
		VendorID:    input.VendorID,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes the session.

POST /api/v1/auth/login

Description: Verifies credentials and sets the HttpOnly session cookie. The
cookie value is a fresh identifier on every login; a pre-login cookie the
client carried is destroyed server-side, never adopted.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: User: Authenticated profile (session travels in the cookie)
  - 401: Unauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var priorSessionID string
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		priorSessionID = cookie.Value
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Login:          input.Login,
		Password:       input.Password,
		UserAgent:      request.UserAgent(),
		IPAddress:      middleware.RealIP(request),
		PriorSessionID: priorSessionID,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.SetSessionCookie(writer, result.SessionID, handler.secureCookie)
	respond.OK(writer, map[string]any{
		FieldUser: result.User,
	})
}

/*
Logout destroys the current session.

POST /api/v1/auth/logout

Response:
  - 204: Session destroyed, cookie expired
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	middleware.ExpireSessionCookie(writer)
	respond.NoContent(writer)
}

/*
IssueToken signs a short-lived JWT for the integration API.

POST /api/v1/auth/token

Description: Exchanges the caller's session for a stateless RS256 token that
vendor back-office scripts can present as a Bearer credential.

Response:
  - 200: {token}: Signed JWT
  - 503: ServiceUnavailable when issuance is not configured
*/
func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	identity := requestutil.Identity(request)

	token, err := handler.authService.IssueIntegrationToken(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldToken: token})
}

/*
Me returns the caller's own profile.

GET /api/v1/auth/me

Response:
  - 200: User
  - 404: NotFound when the account vanished under a live session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity := requestutil.Identity(request)

	user, err := handler.authService.Profile(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile updates the caller's mutable profile fields.

PUT /api/v1/auth/me

Response:
  - 200: User: Updated profile
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	var input updateProfileRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 64)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity := requestutil.Identity(request)
	user, err := handler.authService.UpdateProfile(request.Context(), identity.UserID, UpdateProfileInput{
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangePassword rotates the caller's password.

POST /api/v1/auth/change-password

Description: Verifies the current password, stores the new hash, and revokes
every session of the account — including the one making this request. The
cookie is expired so the client knows to log in again.

Response:
  - 204: Password changed, all sessions revoked
  - 401: Unauthorized: Current password incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input changePasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		MaxLen(FieldNewPassword, input.NewPassword, MaxPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity := requestutil.Identity(request)
	err := handler.authService.ChangePassword(request.Context(), identity.UserID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.ExpireSessionCookie(writer)
	respond.NoContent(writer)
}

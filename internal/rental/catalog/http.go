// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/platform/middleware"
	requestutil "github.com/rentiva/rentiva/internal/platform/request"
	"github.com/rentiva/rentiva/internal/platform/respond"
	"github.com/rentiva/rentiva/internal/platform/validate"
	"github.com/rentiva/rentiva/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the catalogue HTTP endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// Routes returns a [chi.Router] configured with catalogue routes.
//
// All routes require an authenticated session; write routes additionally
// pass the modification gates inside the service.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/slug/{slug}", handler.getBySlug)
	router.Get("/{productID}", handler.get)
	router.Put("/{productID}", handler.update)
	router.Delete("/{productID}", handler.remove)

	router.Get("/{productID}/variants", handler.listVariants)
	router.Post("/{productID}/variants", handler.addVariant)
	router.Patch("/{productID}/variants/{variantID}", handler.updateVariant)

	return router
}

// # Request Payloads

type productRequest struct {
	VendorID    string `json:"vendor_id,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DailyPrice  int64  `json:"daily_price_cents"`
	Currency    string `json:"currency"`
	IsPublished bool   `json:"is_published"`
}

type variantRequest struct {
	SKU       string `json:"sku"`
	Condition string `json:"condition,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// variantPatchRequest distinguishes absent fields from zero values.
type variantPatchRequest struct {
	SKU       *string `json:"sku,omitempty"`
	Condition *string `json:"condition,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (payload productRequest) toInput() ProductInput {
	return ProductInput{
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Description: payload.Description,
		DailyPrice:  payload.DailyPrice,
		Currency:    payload.Currency,
		IsPublished: payload.IsPublished,
	}
}

/*
List returns one page of published listings.

GET /api/v1/products?page=&limit=&vendor_id=

Response:
  - 200: []Product with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	vendorID := request.URL.Query().Get("vendor_id")

	products, meta, err := handler.catalogService.ListProducts(
		request.Context(), requestutil.Identity(request), params, vendorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, meta)
}

/*
Create registers a new listing.

POST /api/v1/products

Description: Vendors create under their own vendor; administrators may pass
vendor_id explicitly. An omitted vendor_id defaults to the caller's binding.

Response:
  - 201: Product
  - 403: Forbidden for customers or cross-vendor attempts
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload productRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	identity := requestutil.Identity(request)
	vendorID := payload.VendorID
	if vendorID == "" {
		vendorID = identity.VendorID
	}

	product, err := handler.catalogService.CreateProduct(request.Context(), identity, vendorID, payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
Get returns one listing by ID.

GET /api/v1/products/{productID}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.catalogService.GetProduct(
		request.Context(), requestutil.Identity(request), requestutil.ID(request, "productID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
GetBySlug resolves a published listing by slug.

GET /api/v1/products/slug/{slug}
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.catalogService.GetProductBySlug(
		request.Context(), requestutil.Identity(request), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Update rewrites a listing's mutable fields.

PUT /api/v1/products/{productID}
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var payload productRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	product, err := handler.catalogService.UpdateProduct(
		request.Context(), requestutil.Identity(request),
		requestutil.ID(request, "productID"), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Remove deletes a listing.

DELETE /api/v1/products/{productID}
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	err := handler.catalogService.DeleteProduct(
		request.Context(), requestutil.Identity(request), requestutil.ID(request, "productID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListVariants returns the physical units of one listing.

GET /api/v1/products/{productID}/variants
*/
func (handler *Handler) listVariants(writer http.ResponseWriter, request *http.Request) {
	variants, err := handler.catalogService.ListVariants(
		request.Context(), requestutil.Identity(request), requestutil.ID(request, "productID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, variants)
}

/*
AddVariant registers a new physical unit under a listing.

POST /api/v1/products/{productID}/variants
*/
func (handler *Handler) addVariant(writer http.ResponseWriter, request *http.Request) {
	var payload variantRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	variant, err := handler.catalogService.AddVariant(
		request.Context(), requestutil.Identity(request),
		requestutil.ID(request, "productID"), VariantInput{
			SKU:       payload.SKU,
			Condition: payload.Condition,
			IsActive:  payload.IsActive,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, variant)
}

/*
UpdateVariant applies a partial update to one physical unit.

PATCH /api/v1/products/{productID}/variants/{variantID}
*/
func (handler *Handler) updateVariant(writer http.ResponseWriter, request *http.Request) {
	var payload variantPatchRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	variant, err := handler.catalogService.UpdateVariant(
		request.Context(), requestutil.Identity(request),
		requestutil.ID(request, "productID"), requestutil.ID(request, "variantID"),
		VariantPatch{
			SKU:       payload.SKU,
			Condition: payload.Condition,
			IsActive:  payload.IsActive,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, variant)
}

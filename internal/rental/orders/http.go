// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/platform/middleware"
	requestutil "github.com/rentiva/rentiva/internal/platform/request"
	"github.com/rentiva/rentiva/internal/platform/respond"
	"github.com/rentiva/rentiva/internal/platform/validate"
	"github.com/rentiva/rentiva/internal/rbac"
	"github.com/rentiva/rentiva/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the order HTTP endpoints.
type Handler struct {
	orderService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{orderService: service}
}

// Routes returns a [chi.Router] configured with order routes.
//
// Every route requires an authenticated session; the service's capability and
// ownership gates decide the rest.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listMine)
	router.Post("/", handler.create)
	router.Get("/{orderID}", handler.get)

	router.Post("/{orderID}/approve", handler.approve)
	router.Post("/{orderID}/reject", handler.reject)
	router.Post("/{orderID}/complete", handler.complete)
	router.Post("/{orderID}/cancel", handler.cancel)

	return router
}

// # Request Payloads

type itemRequest struct {
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
}

type createRequest struct {
	VendorID string        `json:"vendor_id"`
	StartsAt time.Time     `json:"starts_at"`
	EndsAt   time.Time     `json:"ends_at"`
	Items    []itemRequest `json:"items"`
}

func (payload createRequest) toInput() CreateInput {
	input := CreateInput{
		VendorID: payload.VendorID,
		StartsAt: payload.StartsAt,
		EndsAt:   payload.EndsAt,
		Items:    make([]ItemInput, 0, len(payload.Items)),
	}
	for _, item := range payload.Items {
		input.Items = append(input.Items, ItemInput{
			VariantID: item.VariantID,
			ProductID: item.ProductID,
		})
	}
	return input
}

/*
Create places a new order.

POST /api/v1/orders

Response:
  - 201: The pending order with all inventory locks held
  - 409: Conflict when any requested range is taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload createRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	order, err := handler.orderService.Create(
		request.Context(), requestutil.Identity(request), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

/*
Get returns one order.

GET /api/v1/orders/{orderID}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	order, err := handler.orderService.Get(
		request.Context(), requestutil.Identity(request), requestutil.ID(request, "orderID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

/*
ListMine returns the caller's orders: placed for customers, incoming for
vendors.

GET /api/v1/orders?page=&limit=
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	orders, meta, err := handler.orderService.ListMine(
		request.Context(), requestutil.Identity(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, meta)
}

/*
Approve confirms a pending order. Vendor or administrator only.

POST /api/v1/orders/{orderID}/approve
*/
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.orderService.Approve)
}

/*
Reject declines a pending order and frees its inventory.

POST /api/v1/orders/{orderID}/reject
*/
func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.orderService.Reject)
}

/*
Complete closes out an approved order and frees its inventory.

POST /api/v1/orders/{orderID}/complete
*/
func (handler *Handler) complete(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.orderService.Complete)
}

/*
Cancel withdraws the order and frees its inventory.

POST /api/v1/orders/{orderID}/cancel
*/
func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, handler.orderService.Cancel)
}

type transitionFunc func(ctx context.Context, identity *rbac.Identity, orderID string) (*Order, error)

func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request, apply transitionFunc) {
	order, err := apply(
		request.Context(), requestutil.Identity(request), requestutil.ID(request, "orderID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

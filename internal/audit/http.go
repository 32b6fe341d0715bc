// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva/internal/platform/middleware"
	requestutil "github.com/rentiva/rentiva/internal/platform/request"
	"github.com/rentiva/rentiva/internal/platform/respond"
)

// # Definitions & Constructors

// Handler serves the audit trail to administrators.
type Handler struct {
	auditService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{auditService: service}
}

// Routes returns a [chi.Router] configured with audit trail routes.
//
// The whole group sits behind the administrator gate: the trail records who
// did what and is itself sensitive.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Use(middleware.RequireAdministrator)

	router.Get("/entity/{entityType}/{entityID}", handler.trailForEntity)
	router.Get("/actor/{actorID}", handler.trailForActor)

	return router
}

/*
TrailForEntity returns one entity's audit history, newest first.

GET /api/v1/audit/entity/{entityType}/{entityID}?limit=
*/
func (handler *Handler) trailForEntity(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.auditService.TrailForEntity(
		request.Context(),
		requestutil.Param(request, "entityType"),
		requestutil.ID(request, "entityID"),
		queryLimit(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
TrailForActor returns one actor's audit history, newest first.

GET /api/v1/audit/actor/{actorID}?limit=
*/
func (handler *Handler) trailForActor(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.auditService.TrailForActor(
		request.Context(), requestutil.ID(request, "actorID"), queryLimit(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

func queryLimit(request *http.Request) int {
	limit, err := strconv.Atoi(request.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

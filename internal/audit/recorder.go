// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/rentiva/rentiva/pkg/uuidv7"
)

// Service records audit events and serves trail queries.
//
// Recording is best effort: a failing trail write must never abort the
// request that produced the event, so Log swallows storage errors after
// logging them.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService wires the audit service to its storage.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Log appends an audit entry for a security-relevant event.

Description: Satisfies the recorder contracts of the authorization engine and
the session manager. Failures are logged and discarded.

Parameters:
  - context: context.Context
  - entityType: string (e.g. "order", "session")
  - entityID: string (may be empty when no instance is involved)
  - action: string (e.g. "authorization.denied")
  - oldValue / newValue: string (state transition snapshots)
  - actorID: string (empty for anonymous callers)
*/
func (service *Service) Log(context context.Context, entityType, entityID, action, oldValue, newValue, actorID string) {
	entry := &Entry{
		ID:         uuidv7.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   oldValue,
		NewValue:   newValue,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	}

	if err := service.repository.Insert(context, entry); err != nil {
		service.logger.ErrorContext(context, "audit_insert_failed",
			slog.String("entity_type", entityType),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

/*
TrailForEntity returns the audit history of one entity, newest first.

Parameters:
  - context: context.Context
  - entityType, entityID: string
  - limit: int (capped to 100, defaulted to 50)

Returns:
  - []*Entry: Matching entries
  - error: Storage failures
*/
func (service *Service) TrailForEntity(context context.Context, entityType, entityID string, limit int) ([]*Entry, error) {
	return service.repository.ListByEntity(context, entityType, entityID, clampLimit(limit))
}

/*
TrailForActor returns the audit history produced by one actor, newest first.
*/
func (service *Service) TrailForActor(context context.Context, actorID string, limit int) ([]*Entry, error) {
	return service.repository.ListByActor(context, actorID, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 100 {
		return 100
	}
	return limit
}

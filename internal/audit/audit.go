// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package audit provides the append-only audit trail for security-relevant
events.

Authorization denials, session lifecycle transitions and inventory decisions
are recorded here so that operators can reconstruct who attempted what, and
when. Entries are write-once: there is no update or delete path.
*/
package audit

import (
	"context"
	"time"
)

// # Entities

// Entry is a single immutable audit record.
type Entry struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Ports

// Repository defines the persistence contract for audit entries.
type Repository interface {
	// Insert appends a new entry to the trail.
	Insert(ctx context.Context, entry *Entry) error

	// ListByEntity returns entries for one entity, newest first.
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*Entry, error)

	// ListByActor returns entries produced by one actor, newest first.
	ListByActor(ctx context.Context, actorID string, limit int) ([]*Entry, error)
}

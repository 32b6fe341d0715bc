// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/rentiva/rentiva/internal/platform/apperr"
)

// # In-Memory Lock Repository

// MemoryRepository implements the Repository interface in process memory.
//
// It backs local development and tests, and doubles as the reference
// implementation of the serialization contract: mu is the serialization
// boundary, held across the overlap check and the insert, so concurrent
// overlapping claims on the same variant resolve to exactly one winner.
// One store-wide mutex is coarser than the per-variant advisory lock the
// PostgreSQL store takes, but at in-process scale the contract is the same.
type MemoryRepository struct {
	mu    sync.Mutex // serializes every check-then-insert
	locks map[string]*Lock
}

// NewMemoryRepository creates an empty in-memory Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		locks: make(map[string]*Lock),
	}
}

// Reserve implements the serialized check-then-insert.
func (repository *MemoryRepository) Reserve(_ context.Context, lock *Lock) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.locks {
		if existing.VariantID != lock.VariantID || !existing.Active() {
			continue
		}
		if existing.Overlaps(lock.StartsAt, lock.EndsAt) {
			return apperr.Conflict("The requested time range is no longer available")
		}
	}

	copied := *lock
	repository.locks[lock.ID] = &copied
	return nil
}

// FindByID returns the lock with the given ID.
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Lock, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	lock, ok := repository.locks[id]
	if !ok {
		return nil, apperr.NotFound("Inventory lock")
	}
	copied := *lock
	return &copied, nil
}

// ListActiveOverlapping returns active locks intersecting [startsAt, endsAt).
func (repository *MemoryRepository) ListActiveOverlapping(_ context.Context, variantID string, startsAt, endsAt time.Time) ([]*Lock, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	result := make([]*Lock, 0)
	for _, lock := range repository.locks {
		if lock.VariantID == variantID && lock.Active() && lock.Overlaps(startsAt, endsAt) {
			copied := *lock
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListByOrder returns all locks claimed for the order.
func (repository *MemoryRepository) ListByOrder(_ context.Context, orderID string) ([]*Lock, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	result := make([]*Lock, 0)
	for _, lock := range repository.locks {
		if lock.OrderID == orderID {
			copied := *lock
			result = append(result, &copied)
		}
	}
	return result, nil
}

// Update persists the lock's mutable fields.
func (repository *MemoryRepository) Update(_ context.Context, lock *Lock) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.locks[lock.ID]; !ok {
		return apperr.NotFound("Inventory lock")
	}
	copied := *lock
	repository.locks[lock.ID] = &copied
	return nil
}

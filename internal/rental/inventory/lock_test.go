// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rentiva/rentiva/internal/rental/inventory"
)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

/*
TestLock_Overlaps pins the half-open interval semantics against concrete
ranges. An existing lock holds [10, 15).
*/
func TestLock_Overlaps(t *testing.T) {
	lock := &inventory.Lock{
		VariantID: "variant-1",
		StartsAt:  day(10),
		EndsAt:    day(15),
		Status:    inventory.StatusActive,
	}

	tests := []struct {
		name     string
		starts   time.Time
		ends     time.Time
		overlaps bool
	}{
		{"identical_range", day(10), day(15), true},
		{"contained_range", day(11), day(13), true},
		{"containing_range", day(8), day(20), true},
		{"straddles_start", day(8), day(11), true},
		{"straddles_end", day(14), day(18), true},
		{"ends_on_start_day", day(5), day(10), false}, // return day is bookable
		{"starts_on_end_day", day(15), day(20), false},
		{"fully_before", day(1), day(5), false},
		{"fully_after", day(20), day(25), false},
		{"single_day_inside", day(12), day(13), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, lock.Overlaps(tt.starts, tt.ends))
		})
	}
}

/*
TestLock_ReleaseIsTerminal verifies the one-way lifecycle: active → released,
with release idempotent and no path back.
*/
func TestLock_ReleaseIsTerminal(t *testing.T) {
	lock := &inventory.Lock{
		StartsAt: day(10),
		EndsAt:   day(15),
		Status:   inventory.StatusActive,
	}
	assert.True(t, lock.Active())
	assert.Nil(t, lock.ReleasedAt)

	releasedAt := day(12)
	lock.Release(releasedAt)
	assert.False(t, lock.Active())
	assert.Equal(t, inventory.StatusReleased, lock.Status)
	assert.Equal(t, releasedAt, lock.UpdatedAt)
	if assert.NotNil(t, lock.ReleasedAt) {
		assert.Equal(t, releasedAt, *lock.ReleasedAt)
	}

	// Second release changes nothing, not even the timestamps.
	lock.Release(day(14))
	assert.Equal(t, inventory.StatusReleased, lock.Status)
	assert.Equal(t, releasedAt, lock.UpdatedAt)
	assert.Equal(t, releasedAt, *lock.ReleasedAt)
}

/*
TestLock_ReleasedDoesNotBlock verifies that a released lock no longer counts
as an overlap at the repository level.
*/
func TestLock_ReleasedDoesNotBlock(t *testing.T) {
	lock := &inventory.Lock{
		StartsAt: day(10),
		EndsAt:   day(15),
		Status:   inventory.StatusReleased,
	}

	// Overlaps is pure geometry; the status filter lives in the stores.
	assert.True(t, lock.Overlaps(day(10), day(15)))
	assert.False(t, lock.Active())
}

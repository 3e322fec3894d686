//go:build unit

package slot_test

import (
	"context"
	"testing"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/slot"
	"smart-parking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlots map[uuid.UUID]*slot.Slot

func (f fakeSlots) FindByID(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	s, ok := f[id]
	if !ok {
		return nil, errs.NewKind("row not found", errs.ErrKindNotFound)
	}
	cp := *s
	return &cp, nil
}

type existingBooking struct {
	slotID   uuid.UUID
	status   booking.Status
	interval booking.Interval
}

type fakeBookings struct {
	rows  []existingBooking
	calls int
}

func (f *fakeBookings) HasActiveOverlap(_ context.Context, slotID uuid.UUID, iv booking.Interval) (bool, error) {
	f.calls++
	for _, r := range f.rows {
		if r.slotID != slotID {
			continue
		}
		active := false
		for _, s := range booking.ActiveStatuses {
			if r.status == s {
				active = true
			}
		}
		if active && r.interval.Overlaps(iv) {
			return true, nil
		}
	}
	return false, nil
}

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func interval(t *testing.T, start, end time.Time) booking.Interval {
	t.Helper()
	iv, err := booking.NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestChecker_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	slotID := uuid.New()
	free := func() *slot.Slot {
		return &slot.Slot{ID: slotID, SlotType: "regular", IsActive: true}
	}

	tests := []struct {
		name     string
		slot     *slot.Slot
		existing []existingBooking
		req      booking.Interval
		errIs    error
		kind     error
	}{
		{
			name: "free slot is accepted",
			slot: free(),
			req:  interval(t, at(10, 0), at(12, 0)),
		},
		{
			name:  "missing slot",
			req:   interval(t, at(10, 0), at(12, 0)),
			errIs: slot.ErrSlotNotFound,
			kind:  errs.ErrKindNotFound,
		},
		{
			name:  "inactive slot is rejected regardless of interval",
			slot:  &slot.Slot{ID: slotID, IsActive: false},
			req:   interval(t, at(1, 0), at(2, 0)),
			errIs: slot.ErrSlotInactive,
			kind:  errs.ErrKindInactive,
		},
		{
			name:  "reserved slot",
			slot:  &slot.Slot{ID: slotID, IsActive: true, IsReserved: true},
			req:   interval(t, at(10, 0), at(12, 0)),
			errIs: slot.ErrSlotUnavailable,
			kind:  errs.ErrKindConflict,
		},
		{
			name:  "occupied slot",
			slot:  &slot.Slot{ID: slotID, IsActive: true, IsOccupied: true},
			req:   interval(t, at(10, 0), at(12, 0)),
			errIs: slot.ErrSlotUnavailable,
			kind:  errs.ErrKindConflict,
		},
		{
			name: "overlapping confirmed booking",
			slot: free(),
			existing: []existingBooking{
				{slotID: slotID, status: booking.StatusConfirmed, interval: interval(t, at(10, 0), at(12, 0))},
			},
			req:   interval(t, at(11, 0), at(13, 0)),
			errIs: slot.ErrSlotConflict,
			kind:  errs.ErrKindConflict,
		},
		{
			name: "touching booking conflicts",
			slot: free(),
			existing: []existingBooking{
				{slotID: slotID, status: booking.StatusPending, interval: interval(t, at(10, 0), at(12, 0))},
			},
			req:   interval(t, at(12, 0), at(13, 0)),
			errIs: slot.ErrSlotConflict,
			kind:  errs.ErrKindConflict,
		},
		{
			name: "cancelled booking does not block",
			slot: free(),
			existing: []existingBooking{
				{slotID: slotID, status: booking.StatusCancelled, interval: interval(t, at(10, 0), at(12, 0))},
			},
			req: interval(t, at(11, 0), at(13, 0)),
		},
		{
			name: "booking on another slot does not block",
			slot: free(),
			existing: []existingBooking{
				{slotID: uuid.New(), status: booking.StatusActive, interval: interval(t, at(10, 0), at(12, 0))},
			},
			req: interval(t, at(11, 0), at(13, 0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := fakeSlots{}
			if tt.slot != nil {
				slots[slotID] = tt.slot
			}
			checker := slot.NewChecker(slots, &fakeBookings{rows: tt.existing})

			got, err := checker.CheckAvailability(ctx, slotID, tt.req)
			if tt.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errIs)
				assert.True(t, errs.Is(err, tt.kind))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, slotID, got.ID)
		})
	}
}

func TestChecker_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	slotID := uuid.New()
	slots := fakeSlots{slotID: {ID: slotID, IsActive: true}}
	bookings := &fakeBookings{rows: []existingBooking{
		{slotID: slotID, status: booking.StatusConfirmed, interval: interval(t, at(10, 0), at(12, 0))},
	}}
	checker := slot.NewChecker(slots, bookings)

	for _, req := range []booking.Interval{
		interval(t, at(11, 0), at(13, 0)),
		interval(t, at(13, 0), at(14, 0)),
	} {
		_, first := checker.CheckAvailability(ctx, slotID, req)
		_, second := checker.CheckAvailability(ctx, slotID, req)
		assert.Equal(t, first == nil, second == nil)
		if first != nil {
			assert.ErrorIs(t, second, first)
		}
	}
	assert.False(t, slots[slotID].IsReserved)
	assert.Equal(t, 4, bookings.calls)
}

func TestFinderFunc(t *testing.T) {
	called := false
	finder := slot.FinderFunc(func(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
		called = true
		return &slot.Slot{ID: id, IsActive: true}, nil
	})
	checker := slot.NewChecker(finder, &fakeBookings{})

	_, err := checker.CheckAvailability(context.Background(), uuid.New(), interval(t, at(8, 0), at(9, 0)))
	require.NoError(t, err)
	assert.True(t, called)
}

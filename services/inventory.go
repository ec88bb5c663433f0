package services

import (
	"context"
	"time"
)

// InventoryCounter counts physical rooms and the units already committed to
// overlapping stays. Every physical room counts toward capacity whatever its
// housekeeping status.
type InventoryCounter struct {
	store InventoryStore
}

func NewInventoryCounter(store InventoryStore) *InventoryCounter {
	return &InventoryCounter{store: store}
}

func (c *InventoryCounter) TotalRooms(ctx context.Context, roomTypeID uint) (int64, error) {
	return c.store.CountRoomsByType(ctx, roomTypeID)
}

// OccupiedRooms counts units of the room type held by bookings overlapping
// [checkIn, checkOut). A non-nil excludeBookingID is left out of the count so a
// booking being edited does not block its own slot.
func (c *InventoryCounter) OccupiedRooms(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time, excludeBookingID *uint) (int64, error) {
	from, to := DateOnly(checkIn), DateOnly(checkOut)
	if excludeBookingID != nil {
		return c.store.CountOverlappingBookingsExcluding(ctx, roomTypeID, from, to, *excludeBookingID)
	}
	return c.store.CountOverlappingBookings(ctx, roomTypeID, from, to)
}

// Overlaps reports whether the half-open ranges [a1, a2) and [b1, b2) share a day.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

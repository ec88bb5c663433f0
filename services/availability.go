package services

import (
	"context"
	"time"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// Availability is the outcome of an availability check.
type Availability struct {
	Total     int64 `json:"total"`
	Occupied  int64 `json:"occupied"`
	Available int64 `json:"available"`
}

type AvailabilityChecker struct {
	inventory *InventoryCounter
}

func NewAvailabilityChecker(store InventoryStore) *AvailabilityChecker {
	return &AvailabilityChecker{inventory: NewInventoryCounter(store)}
}

// Check fails with *AvailabilityError when quantity exceeds the free units.
func (a *AvailabilityChecker) Check(ctx context.Context, rt *models.RoomType, quantity int64, checkIn, checkOut time.Time, excludeBookingID *uint) (Availability, error) {
	total, occupied, err := a.counts(ctx, rt.ID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return Availability{}, err
	}
	return EvaluateAvailability(rt.Name, quantity, total, occupied)
}

// CheckSingle is the one-unit variant: it fails as soon as every room is taken.
func (a *AvailabilityChecker) CheckSingle(ctx context.Context, rt *models.RoomType, checkIn, checkOut time.Time, excludeBookingID *uint) (Availability, error) {
	total, occupied, err := a.counts(ctx, rt.ID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return Availability{}, err
	}
	res := Availability{Total: total, Occupied: occupied, Available: total - occupied}
	if occupied >= total {
		return res, &AvailabilityError{RoomTypeName: rt.Name, Requested: 1, Available: max(res.Available, 0)}
	}
	return res, nil
}

func (a *AvailabilityChecker) counts(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time, exclude *uint) (int64, int64, error) {
	total, err := a.inventory.TotalRooms(ctx, roomTypeID)
	if err != nil {
		return 0, 0, err
	}
	occupied, err := a.inventory.OccupiedRooms(ctx, roomTypeID, checkIn, checkOut, exclude)
	if err != nil {
		return 0, 0, err
	}
	return total, occupied, nil
}

// EvaluateAvailability is the pure decision behind Check.
func EvaluateAvailability(roomTypeName string, quantity, total, occupied int64) (Availability, error) {
	res := Availability{Total: total, Occupied: occupied, Available: total - occupied}
	if quantity > res.Available {
		return res, &AvailabilityError{RoomTypeName: roomTypeName, Requested: quantity, Available: max(res.Available, 0)}
	}
	return res, nil
}

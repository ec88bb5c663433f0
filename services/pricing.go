package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// DateOnly drops the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of calendar days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}

// ValidateStay enforces checkOut > checkIn and returns the stay length.
func ValidateStay(checkIn, checkOut time.Time) (int, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0, invalidRange("check-in and check-out dates are required")
	}
	if !DateOnly(checkOut).After(DateOnly(checkIn)) {
		return 0, invalidRange("check-out %s must be after check-in %s",
			checkOut.Format(dateLayout), checkIn.Format(dateLayout))
	}
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return 0, invalidRange("stay must last at least one night")
	}
	return nights, nil
}

// PriceFor multiplies the room type's nightly rate by the stay length.
func PriceFor(rt *models.RoomType, nights int) (decimal.Decimal, error) {
	if !rt.BasePrice.Valid {
		return decimal.Zero, fmt.Errorf("%w: room type %q", ErrMissingBaseRate, rt.Name)
	}
	if nights < 1 {
		return decimal.Zero, invalidRange("stay must last at least one night")
	}
	return rt.BasePrice.Decimal.Mul(decimal.NewFromInt(int64(nights))), nil
}

const dateLayout = "2006-01-02"

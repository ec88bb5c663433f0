package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingPayload_ShorthandBecomesItem(t *testing.T) {
	roomID := uint(12)
	p := BookingPayload{
		CustomerID:   3,
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-05T12:00:00Z",
		GuestCount:   2,
		Status:       " confirmed ",
		RoomTypeID:   4,
		RoomID:       &roomID,
	}

	req, err := p.toRequest()

	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", req.Status)
	require.Len(t, req.Items, 1)
	assert.Equal(t, uint(4), req.Items[0].RoomTypeID)
	assert.Equal(t, &roomID, req.Items[0].RoomID)
	assert.Equal(t, 4*24*time.Hour, req.CheckOutDate.Sub(req.CheckInDate))
}

func TestBookingPayload_ItemsWinOverShorthand(t *testing.T) {
	p := BookingPayload{
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-02",
		GuestCount:   1,
		RoomTypeID:   9,
		Items:        []BookingItemPayload{{RoomTypeID: 1, OccupantName: " Ana "}, {RoomTypeID: 2}},
	}

	req, err := p.toRequest()

	require.NoError(t, err)
	require.Len(t, req.Items, 2)
	assert.Equal(t, "Ana", req.Items[0].OccupantName)
	assert.Equal(t, uint(2), req.Items[1].RoomTypeID)
}

func TestBookingPayload_BadDate(t *testing.T) {
	p := BookingPayload{CheckInDate: "01/01/2025", CheckOutDate: "2025-01-02", GuestCount: 1}

	_, err := p.toRequest()

	assert.Error(t, err)
}

func TestBookingPatchPayload_ToPatch(t *testing.T) {
	in, status := "2025-02-01", "checked_in"
	patch, err := BookingPatchPayload{CheckInDate: &in, Status: &status}.toPatch()

	require.NoError(t, err)
	require.NotNil(t, patch.CheckInDate)
	assert.Nil(t, patch.CheckOutDate)
	assert.Equal(t, "CHECKED_IN", *patch.Status)
}

func TestCreateBooking_RejectsBadPayload(t *testing.T) {
	bc := NewBookingController(nil, nil, nil, zap.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing dates", `{"customerId":1,"guestCount":1,"roomTypeId":1}`},
		{"missing customer", `{"checkInDate":"2025-01-01","checkOutDate":"2025-01-02","guestCount":1,"roomTypeId":1}`},
		{"bad date", `{"customerId":1,"checkInDate":"tomorrow","checkOutDate":"2025-01-02","guestCount":1,"roomTypeId":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, http.MethodPost, "/api/bookings", "/api/bookings", tt.body, bc.CreateBooking)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error.invalidPayload", decodeError(t, w).Error.Code)
		})
	}
}

func TestGetBookings_RejectsBadFilters(t *testing.T) {
	bc := NewBookingController(nil, nil, nil, zap.NewNop())

	for _, target := range []string{"/api/bookings?from=yesterday", "/api/bookings?roomTypeId=abc"} {
		w := serve(t, http.MethodGet, "/api/bookings", target, "", bc.GetBookings)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, "error.invalidQuery", decodeError(t, w).Error.Code)
	}
}

func TestGetBooking_InvalidID(t *testing.T) {
	bc := NewBookingController(nil, nil, nil, zap.NewNop())

	w := serve(t, http.MethodGet, "/api/bookings/:id", "/api/bookings/zero", "", bc.GetBooking)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

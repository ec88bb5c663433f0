package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BookingStatusPendingApproval = "PENDING_APPROVAL"
	BookingStatusConfirmed       = "CONFIRMED"
	BookingStatusCheckedIn       = "CHECKED_IN"
	BookingStatusCheckedOut      = "CHECKED_OUT"
	BookingStatusCancelled       = "CANCELLED"
)

// bookingTransitions lists the statuses reachable from each status.
var bookingTransitions = map[string][]string{
	BookingStatusPendingApproval: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:       {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn:       {BookingStatusCheckedOut, BookingStatusCancelled},
}

// IsBookingStatus reports whether s is a known booking status.
func IsBookingStatus(s string) bool {
	switch s {
	case BookingStatusPendingApproval, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionBooking reports whether a booking may move from one status to another.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code         string    `gorm:"column:code;size:64;uniqueIndex" json:"code"`
	CheckInDate  time.Time `gorm:"column:check_in_date;type:date;index" json:"checkInDate"`
	CheckOutDate time.Time `gorm:"column:check_out_date;type:date;index" json:"checkOutDate"`
	GuestCount   int       `gorm:"column:guest_count" json:"guestCount"`
	Status       string    `gorm:"column:status;size:32;index" json:"status"`
	Notes        string    `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CustomerID uint            `gorm:"column:customer_id;index;not null" json:"customerId"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(12,2)" json:"totalPrice"`

	Customer Customer      `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Items    []BookingItem `gorm:"foreignKey:BookingID" json:"items"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BookingItem is one unit of room-type inventory held by a booking.
type BookingItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID    uint            `gorm:"column:booking_id;index;not null" json:"bookingId"`
	RoomTypeID   uint            `gorm:"column:room_type_id;index;not null" json:"roomTypeId"`
	RoomID       *uint           `gorm:"column:room_id;index" json:"roomId,omitempty"`
	OccupantName string          `gorm:"column:occupant_name;size:255" json:"occupantName"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(12,2)" json:"price"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
	Room     *Room    `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

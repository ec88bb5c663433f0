package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// BookingFilter narrows the booking list. Zero fields do not filter.
// From/To select bookings whose stay overlaps [From, To).
type BookingFilter struct {
	CustomerID *uint
	RoomTypeID *uint
	Status     string
	Code       string
	From       *time.Time
	To         *time.Time
}

// BookingSummary is the list projection: no items, no invoices.
type BookingSummary struct {
	ID           uint            `json:"id"`
	Code         string          `json:"code"`
	CustomerID   uint            `json:"customerId"`
	CustomerName string          `json:"customerName"`
	CheckInDate  time.Time       `json:"checkInDate"`
	CheckOutDate time.Time       `json:"checkOutDate"`
	GuestCount   int             `json:"guestCount"`
	Status       string          `json:"status"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Rooms        int64           `json:"rooms"`
}

type BookingQueryService struct {
	DB *gorm.DB
}

func NewBookingQueryService(db *gorm.DB) *BookingQueryService {
	return &BookingQueryService{DB: db}
}

func (s *BookingQueryService) List(ctx context.Context, f BookingFilter) ([]BookingSummary, error) {
	if f.Status != "" && !models.IsBookingStatus(f.Status) {
		return nil, violation("unknown booking status %q", f.Status)
	}

	q := s.DB.WithContext(ctx).Table("bookings").
		Select("bookings.id, bookings.code, bookings.customer_id, customers.full_name AS customer_name, " +
			"bookings.check_in_date, bookings.check_out_date, bookings.guest_count, bookings.status, " +
			"bookings.total_price, COUNT(booking_items.id) AS rooms").
		Joins("LEFT JOIN customers ON customers.id = bookings.customer_id").
		Joins("LEFT JOIN booking_items ON booking_items.booking_id = bookings.id").
		Where("bookings.deleted_at IS NULL")
	q = applyBookingFilter(q, f)

	out := []BookingSummary{}
	if err := q.Group("bookings.id, customers.full_name").
		Order("bookings.check_in_date DESC, bookings.id DESC").
		Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func applyBookingFilter(q *gorm.DB, f BookingFilter) *gorm.DB {
	if f.CustomerID != nil {
		q = q.Where("bookings.customer_id = ?", *f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if code := strings.TrimSpace(f.Code); code != "" {
		q = q.Where("bookings.code = ?", code)
	}
	if f.RoomTypeID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM booking_items bi WHERE bi.booking_id = bookings.id AND bi.room_type_id = ?)", *f.RoomTypeID)
	}
	if f.To != nil {
		q = q.Where("bookings.check_in_date < ?", DateOnly(*f.To))
	}
	if f.From != nil {
		q = q.Where("bookings.check_out_date > ?", DateOnly(*f.From))
	}
	return q
}

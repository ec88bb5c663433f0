package services

import (
	"context"
	"time"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// InventoryStore is the read side the inventory counter needs.
type InventoryStore interface {
	CountRoomsByType(ctx context.Context, roomTypeID uint) (int64, error)
	CountOverlappingBookings(ctx context.Context, roomTypeID uint, from, to time.Time) (int64, error)
	CountOverlappingBookingsExcluding(ctx context.Context, roomTypeID uint, from, to time.Time, excludeBookingID uint) (int64, error)
}

// Store is the persistence contract of the booking and invoicing engine.
// Every mutation runs through InTx; the Store handed to fn is bound to that
// transaction and is committed when fn returns nil, rolled back otherwise.
type Store interface {
	InventoryStore

	InTx(ctx context.Context, fn func(tx Store) error) error

	FindRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error)
	// LockRoomType holds a row lock on the room type until the transaction ends.
	LockRoomType(ctx context.Context, id uint) error
	FindRoomByID(ctx context.Context, id uint) (*models.Room, error)
	UpdateRoomStatus(ctx context.Context, id uint, status string) error
	FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error)

	FindBookingByID(ctx context.Context, id uint) (*models.Booking, error)
	LockBooking(ctx context.Context, id uint) error
	// SaveBooking inserts or updates the booking and makes its stored items
	// match b.Items exactly.
	SaveBooking(ctx context.Context, b *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id uint, status string) error
	DeleteBooking(ctx context.Context, id uint) error

	FindHotelServiceByID(ctx context.Context, id uint) (*models.HotelService, error)
	FindServiceRequestByID(ctx context.Context, id uint) (*models.ServiceRequest, error)
	SaveServiceRequest(ctx context.Context, r *models.ServiceRequest) error
	ExistsServiceRequestForBooking(ctx context.Context, bookingID uint) (bool, error)
	ListServiceRequestsForBooking(ctx context.Context, bookingID uint) ([]models.ServiceRequest, error)

	// FindOpenInvoiceForBooking returns the most recent invoice that is neither
	// paid nor cancelled, or nil when there is none.
	FindOpenInvoiceForBooking(ctx context.Context, bookingID uint) (*models.Invoice, error)
	FindInvoiceByID(ctx context.Context, id uint) (*models.Invoice, error)
	ListInvoicesForBooking(ctx context.Context, bookingID uint) ([]models.Invoice, error)
	SaveInvoice(ctx context.Context, inv *models.Invoice) error
	SaveInvoiceItem(ctx context.Context, item *models.InvoiceItem) error
	ListInvoiceItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error)
}

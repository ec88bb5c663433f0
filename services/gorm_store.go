package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// GormStore implements Store on top of *gorm.DB.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

func (s *GormStore) CountRoomsByType(ctx context.Context, roomTypeID uint) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("room_type_id = ?", roomTypeID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count rooms of type %d: %w", roomTypeID, err)
	}
	return n, nil
}

// overlapping selects the booking units of a room type whose stay overlaps
// [from, to): existing.check_in < to AND from < existing.check_out.
func (s *GormStore) overlapping(ctx context.Context, roomTypeID uint, from, to time.Time) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&models.BookingItem{}).
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("booking_items.room_type_id = ?", roomTypeID).
		Where("bookings.deleted_at IS NULL").
		Where("bookings.status <> ?", models.BookingStatusCancelled).
		Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", to, from)
}

func (s *GormStore) CountOverlappingBookings(ctx context.Context, roomTypeID uint, from, to time.Time) (int64, error) {
	var n int64
	if err := s.overlapping(ctx, roomTypeID, from, to).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return n, nil
}

func (s *GormStore) CountOverlappingBookingsExcluding(ctx context.Context, roomTypeID uint, from, to time.Time, excludeBookingID uint) (int64, error) {
	var n int64
	if err := s.overlapping(ctx, roomTypeID, from, to).
		Where("bookings.id <> ?", excludeBookingID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return n, nil
}

func (s *GormStore) FindRoomTypeByID(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, id)
		}
		return nil, fmt.Errorf("find room type %d: %w", id, err)
	}
	return &rt, nil
}

func (s *GormStore) LockRoomType(ctx context.Context, id uint) error {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, id)
		}
		return fmt.Errorf("lock room type %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) FindRoomByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("find room %d: %w", id, err)
	}
	return &room, nil
}

func (s *GormStore) UpdateRoomStatus(ctx context.Context, id uint, status string) error {
	if err := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("update room %d status: %w", id, err)
	}
	return nil
}

func (s *GormStore) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
		}
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return &c, nil
}

func (s *GormStore) FindBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("booking_items.id") }).
		Preload("Items.RoomType").
		First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	if b.Items == nil {
		b.Items = []models.BookingItem{}
	}
	return &b, nil
}

func (s *GormStore) LockBooking(ctx context.Context, id uint) error {
	var b models.Booking
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
		}
		return fmt.Errorf("lock booking %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	db := s.DB.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(b).Error; err != nil {
		return fmt.Errorf("save booking: %w", err)
	}

	keep := make([]uint, 0, len(b.Items))
	for i := range b.Items {
		b.Items[i].BookingID = b.ID
		if err := db.Omit(clause.Associations).Save(&b.Items[i]).Error; err != nil {
			return fmt.Errorf("save booking item: %w", err)
		}
		keep = append(keep, b.Items[i].ID)
	}

	stale := db.Where("booking_id = ?", b.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.BookingItem{}).Error; err != nil {
		return fmt.Errorf("remove stale booking items: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateBookingStatus(ctx context.Context, id uint, status string) error {
	res := s.DB.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update booking %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	return nil
}

func (s *GormStore) DeleteBooking(ctx context.Context, id uint) error {
	db := s.DB.WithContext(ctx)
	if err := db.Where("booking_id = ?", id).Delete(&models.BookingItem{}).Error; err != nil {
		return fmt.Errorf("delete booking items: %w", err)
	}
	res := db.Delete(&models.Booking{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete booking %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	return nil
}

func (s *GormStore) FindHotelServiceByID(ctx context.Context, id uint) (*models.HotelService, error) {
	var svc models.HotelService
	if err := s.DB.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrServiceNotFound, id)
		}
		return nil, fmt.Errorf("find hotel service %d: %w", id, err)
	}
	return &svc, nil
}

func (s *GormStore) FindServiceRequestByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	var r models.ServiceRequest
	if err := s.DB.WithContext(ctx).Preload("Service").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service request %w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("find service request %d: %w", id, err)
	}
	return &r, nil
}

func (s *GormStore) SaveServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(r).Error; err != nil {
		return fmt.Errorf("save service request: %w", err)
	}
	return nil
}

func (s *GormStore) ExistsServiceRequestForBooking(ctx context.Context, bookingID uint) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.ServiceRequest{}).
		Where("booking_id = ?", bookingID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check service requests of booking %d: %w", bookingID, err)
	}
	return n > 0, nil
}

func (s *GormStore) ListServiceRequestsForBooking(ctx context.Context, bookingID uint) ([]models.ServiceRequest, error) {
	var out []models.ServiceRequest
	if err := s.DB.WithContext(ctx).
		Preload("Service").
		Where("booking_id = ?", bookingID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list service requests of booking %d: %w", bookingID, err)
	}
	return out, nil
}

func (s *GormStore) FindOpenInvoiceForBooking(ctx context.Context, bookingID uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Where("status NOT IN ?", []string{models.InvoiceStatusPaid, models.InvoiceStatusCancelled}).
		Order("issued_date DESC, id DESC").
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open invoice of booking %d: %w", bookingID, err)
	}
	return &inv, nil
}

func (s *GormStore) FindInvoiceByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id") }).
		First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrInvoiceNotFound, id)
		}
		return nil, fmt.Errorf("find invoice %d: %w", id, err)
	}
	return &inv, nil
}

func (s *GormStore) ListInvoicesForBooking(ctx context.Context, bookingID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	if err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("booking_id = ?", bookingID).
		Order("issued_date DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list invoices of booking %d: %w", bookingID, err)
	}
	return out, nil
}

func (s *GormStore) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(inv).Error; err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	return nil
}

func (s *GormStore) SaveInvoiceItem(ctx context.Context, item *models.InvoiceItem) error {
	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save invoice item: %w", err)
	}
	return nil
}

func (s *GormStore) ListInvoiceItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error) {
	var out []models.InvoiceItem
	if err := s.DB.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	return out, nil
}

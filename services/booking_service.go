// services/booking_service.go
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type BookingItemRequest struct {
	RoomTypeID   uint   `json:"roomTypeId"`
	RoomID       *uint  `json:"roomId,omitempty"`
	OccupantName string `json:"occupantName"`
}

// BookingRequest is the full representation used by Create and Update.
// TotalPrice is accepted for compatibility and always replaced by the computed price.
type BookingRequest struct {
	CustomerID   uint
	CheckInDate  time.Time
	CheckOutDate time.Time
	GuestCount   int
	Status       string
	Notes        string
	Items        []BookingItemRequest
	TotalPrice   *decimal.Decimal
}

// BookingPatch carries only the fields a client wants to change.
type BookingPatch struct {
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	GuestCount   *int
	Notes        *string
	Status       *string
	CustomerID   *uint
	TotalPrice   *decimal.Decimal
}

// BookingService owns the booking lifecycle: validation, availability,
// pricing and the post-commit invoice and notification hand-off.
type BookingService struct {
	store    Store
	locker   RoomTypeLocker
	invoices *InvoiceService
	notifier Notifier
	logger   *zap.Logger

	now     func() time.Time
	newCode func(time.Time) string
}

func NewBookingService(store Store, locker RoomTypeLocker, invoices *InvoiceService, notifier Notifier, logger *zap.Logger) *BookingService {
	if locker == nil {
		locker = NewLocalLocker(0)
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		store:    store,
		locker:   locker,
		invoices: invoices,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newCode:  utils.NewBookingCode,
	}
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return s.store.FindBookingByID(ctx, id)
}

func (s *BookingService) Create(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	if _, err := ValidateStay(req.CheckInDate, req.CheckOutDate); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, violation("a booking needs at least one room")
	}

	status := req.Status
	if status == "" {
		status = models.BookingStatusPendingApproval
	}
	if status != models.BookingStatusPendingApproval {
		return nil, violation("a new booking starts in %s; confirmation follows payment", models.BookingStatusPendingApproval)
	}

	b := &models.Booking{
		Code:         s.newCode(s.now()),
		CheckInDate:  DateOnly(req.CheckInDate),
		CheckOutDate: DateOnly(req.CheckOutDate),
		GuestCount:   req.GuestCount,
		Status:       status,
		Notes:        req.Notes,
		CustomerID:   req.CustomerID,
		Items:        itemsFromRequest(req.Items),
	}

	unlock, err := s.locker.Lock(ctx, roomTypeIDs(b.Items)...)
	if err != nil {
		return nil, err
	}
	err = s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.FindCustomerByID(ctx, b.CustomerID); err != nil {
			return err
		}
		if err := s.reserve(ctx, tx, b, nil); err != nil {
			return err
		}
		return tx.SaveBooking(ctx, b)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Uint("booking_id", b.ID),
		zap.String("code", b.Code),
		zap.Int("items", len(b.Items)),
		zap.String("total", b.TotalPrice.StringFixed(2)))

	created, err := s.store.FindBookingByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.afterCreate(ctx, created)
	return created, nil
}

// afterCreate runs outside the booking transaction; its failures never undo the booking.
func (s *BookingService) afterCreate(ctx context.Context, b *models.Booking) {
	ctx = context.WithoutCancel(ctx)
	if s.invoices != nil {
		if _, err := s.invoices.CreateInitialInvoice(ctx, b); err != nil {
			s.logger.Error("initial invoice failed", zap.Uint("booking_id", b.ID), zap.Error(err))
		}
	}
	s.notifier.BookingCreated(ctx, b)
}

func (s *BookingService) Update(ctx context.Context, id uint, req BookingRequest) (*models.Booking, error) {
	if _, err := ValidateStay(req.CheckInDate, req.CheckOutDate); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, violation("a booking needs at least one room")
	}

	items := itemsFromRequest(req.Items)
	unlock, err := s.locker.Lock(ctx, roomTypeIDs(items)...)
	if err != nil {
		return nil, err
	}
	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.LockBooking(ctx, id); err != nil {
			return err
		}
		b, err := tx.FindBookingByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkEditable(b); err != nil {
			return err
		}
		if req.CustomerID != 0 && req.CustomerID != b.CustomerID {
			return violation("the customer of booking %s cannot be changed", b.Code)
		}
		b.CheckInDate = DateOnly(req.CheckInDate)
		b.CheckOutDate = DateOnly(req.CheckOutDate)
		b.GuestCount = req.GuestCount
		b.Notes = req.Notes
		b.Items = items
		if err := s.reserve(ctx, tx, b, &id); err != nil {
			return err
		}
		if req.Status != "" && req.Status != b.Status {
			if err := applyStatus(ctx, tx, b, req.Status); err != nil {
				return err
			}
		}
		return tx.SaveBooking(ctx, b)
	})
	unlock()
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking updated", zap.Uint("booking_id", id))
	return s.store.FindBookingByID(ctx, id)
}

func (s *BookingService) PartialUpdate(ctx context.Context, id uint, patch BookingPatch) (*models.Booking, error) {
	if patch.TotalPrice != nil {
		return nil, violation("total price is computed by the server and cannot be set")
	}

	current, err := s.store.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.CustomerID != nil && *patch.CustomerID != current.CustomerID {
		return nil, violation("the customer of booking %s cannot be changed", current.Code)
	}

	datesChanged := patch.CheckInDate != nil || patch.CheckOutDate != nil
	unlock := func() {}
	if datesChanged {
		if unlock, err = s.locker.Lock(ctx, roomTypeIDs(current.Items)...); err != nil {
			return nil, err
		}
	}
	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.LockBooking(ctx, id); err != nil {
			return err
		}
		b, err := tx.FindBookingByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkEditable(b); err != nil {
			return err
		}

		if patch.Notes != nil {
			b.Notes = *patch.Notes
		}
		if patch.Status != nil && *patch.Status != b.Status {
			if err := applyStatus(ctx, tx, b, *patch.Status); err != nil {
				return err
			}
		}
		if patch.GuestCount != nil {
			b.GuestCount = *patch.GuestCount
		}

		if datesChanged {
			if patch.CheckInDate != nil {
				b.CheckInDate = DateOnly(*patch.CheckInDate)
			}
			if patch.CheckOutDate != nil {
				b.CheckOutDate = DateOnly(*patch.CheckOutDate)
			}
			if err := s.reserve(ctx, tx, b, &id); err != nil {
				return err
			}
		} else if patch.GuestCount != nil {
			if err := checkCapacity(b.GuestCount, b.Items); err != nil {
				return err
			}
		}
		return tx.SaveBooking(ctx, b)
	})
	unlock()
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking patched", zap.Uint("booking_id", id), zap.Bool("repriced", datesChanged))
	return s.store.FindBookingByID(ctx, id)
}

func (s *BookingService) Delete(ctx context.Context, id uint) error {
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.LockBooking(ctx, id); err != nil {
			return err
		}
		b, err := tx.FindBookingByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == models.BookingStatusConfirmed || b.Status == models.BookingStatusCheckedIn {
			return violation("booking %s is %s and cannot be deleted", b.Code, b.Status)
		}
		used, err := tx.ExistsServiceRequestForBooking(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return violation("booking %s has service requests and cannot be deleted", b.Code)
		}
		return tx.DeleteBooking(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("booking deleted", zap.Uint("booking_id", id))
	return nil
}

// ChangeStatus moves a booking along the status machine.
func (s *BookingService) ChangeStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	if !models.IsBookingStatus(status) {
		return nil, violation("unknown booking status %q", status)
	}
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.LockBooking(ctx, id); err != nil {
			return err
		}
		b, err := tx.FindBookingByID(ctx, id)
		if err != nil {
			return err
		}
		if err := applyStatus(ctx, tx, b, status); err != nil {
			return err
		}
		return tx.UpdateBookingStatus(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking status changed", zap.Uint("booking_id", id), zap.String("status", status))
	return s.store.FindBookingByID(ctx, id)
}

// applyStatus moves b to status and updates its assigned rooms. Check-in marks
// them occupied; check-out hands them to housekeeping. The caller persists b.
func applyStatus(ctx context.Context, tx Store, b *models.Booking, status string) error {
	if !models.CanTransitionBooking(b.Status, status) {
		return violation("booking cannot move from %s to %s", b.Status, status)
	}
	b.Status = status

	roomStatus := ""
	switch status {
	case models.BookingStatusCheckedIn:
		roomStatus = models.RoomStatusOccupied
	case models.BookingStatusCheckedOut:
		roomStatus = models.RoomStatusCleaning
	}
	if roomStatus == "" {
		return nil
	}
	for _, it := range b.Items {
		if it.RoomID == nil {
			continue
		}
		if err := tx.UpdateRoomStatus(ctx, *it.RoomID, roomStatus); err != nil {
			return err
		}
	}
	return nil
}

// reserve validates the stay, locks and loads every room type involved,
// checks capacity and availability, and prices the items. b.TotalPrice is
// overwritten with the sum of the item prices.
func (s *BookingService) reserve(ctx context.Context, tx Store, b *models.Booking, exclude *uint) error {
	nights, err := ValidateStay(b.CheckInDate, b.CheckOutDate)
	if err != nil {
		return err
	}
	if b.GuestCount < 1 {
		return violation("guest count must be at least 1")
	}

	ids := roomTypeIDs(b.Items)
	types := make(map[uint]*models.RoomType, len(ids))
	for _, id := range ids {
		if err := tx.LockRoomType(ctx, id); err != nil {
			return err
		}
		rt, err := tx.FindRoomTypeByID(ctx, id)
		if err != nil {
			return err
		}
		types[id] = rt
	}

	quantity := make(map[uint]int64, len(ids))
	for i := range b.Items {
		it := &b.Items[i]
		it.RoomType = *types[it.RoomTypeID]
		quantity[it.RoomTypeID]++
		if it.RoomID != nil {
			room, err := tx.FindRoomByID(ctx, *it.RoomID)
			if err != nil {
				return err
			}
			if room.RoomTypeID != it.RoomTypeID {
				return violation("room %s is not a %s room", room.RoomNumber, it.RoomType.Name)
			}
		}
	}

	if err := checkCapacity(b.GuestCount, b.Items); err != nil {
		return err
	}

	checker := NewAvailabilityChecker(tx)
	for _, id := range ids {
		if quantity[id] == 1 {
			_, err = checker.CheckSingle(ctx, types[id], b.CheckInDate, b.CheckOutDate, exclude)
		} else {
			_, err = checker.Check(ctx, types[id], quantity[id], b.CheckInDate, b.CheckOutDate, exclude)
		}
		if err != nil {
			return err
		}
	}

	total := decimal.Zero
	for i := range b.Items {
		price, err := PriceFor(&b.Items[i].RoomType, nights)
		if err != nil {
			return err
		}
		b.Items[i].Price = price
		total = total.Add(price)
	}
	b.TotalPrice = total
	return nil
}

func checkCapacity(guests int, items []models.BookingItem) error {
	capacity := 0
	for _, it := range items {
		capacity += it.RoomType.MaxOccupancy
	}
	if guests > capacity {
		return &CapacityError{GuestCount: guests, MaxCapacity: capacity}
	}
	return nil
}

func checkEditable(b *models.Booking) error {
	if b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusCheckedOut {
		return violation("booking %s is %s and can no longer be modified", b.Code, b.Status)
	}
	return nil
}

func itemsFromRequest(reqs []BookingItemRequest) []models.BookingItem {
	items := make([]models.BookingItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.BookingItem{
			RoomTypeID:   r.RoomTypeID,
			RoomID:       r.RoomID,
			OccupantName: r.OccupantName,
		})
	}
	return items
}

func roomTypeIDs(items []models.BookingItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.RoomTypeID)
	}
	return sortedUnique(ids)
}

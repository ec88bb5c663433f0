package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// HotelServiceCatalog manages the billable add-ons offered to guests.
type HotelServiceCatalog struct {
	DB *gorm.DB
}

func NewHotelServiceCatalog(db *gorm.DB) *HotelServiceCatalog {
	return &HotelServiceCatalog{DB: db}
}

func (s *HotelServiceCatalog) Create(ctx context.Context, svc *models.HotelService) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return violation("service name is required")
	}
	if svc.Price.IsNegative() {
		return violation("service price cannot be negative")
	}
	if err := s.DB.WithContext(ctx).Create(svc).Error; err != nil {
		return fmt.Errorf("create hotel service: %w", err)
	}
	return nil
}

func (s *HotelServiceCatalog) GetAll(ctx context.Context, activeOnly bool) ([]models.HotelService, error) {
	out := []models.HotelService{}
	q := s.DB.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list hotel services: %w", err)
	}
	return out, nil
}

type ServiceRequestInput struct {
	BookingID uint
	ServiceID uint
	Quantity  int
	TotalCost *decimal.Decimal
	Details   string
}

// ServiceRequestService records guest orders and bills them on the booking's open invoice.
type ServiceRequestService struct {
	store    Store
	invoices *InvoiceService
	logger   *zap.Logger
	now      func() time.Time
}

func NewServiceRequestService(store Store, invoices *InvoiceService, logger *zap.Logger) *ServiceRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceRequestService{store: store, invoices: invoices, logger: logger, now: time.Now}
}

// Create stores the request and adds its cost to the booking's open invoice
// in the same transaction.
func (s *ServiceRequestService) Create(ctx context.Context, in ServiceRequestInput) (*models.ServiceRequest, *models.Invoice, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, nil, violation("quantity must be at least 1")
	}
	if in.TotalCost != nil && in.TotalCost.IsNegative() {
		return nil, nil, violation("total cost cannot be negative")
	}

	var (
		req *models.ServiceRequest
		inv *models.Invoice
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := tx.FindBookingByID(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusCheckedOut {
			return violation("booking %s is %s and cannot take service requests", b.Code, b.Status)
		}
		svc, err := tx.FindHotelServiceByID(ctx, in.ServiceID)
		if err != nil {
			return err
		}
		if !svc.IsActive {
			return violation("service %q is not available", svc.Name)
		}

		cost := svc.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if in.TotalCost != nil {
			cost = *in.TotalCost
		}
		req = &models.ServiceRequest{
			BookingID:   in.BookingID,
			ServiceID:   svc.ID,
			Quantity:    in.Quantity,
			TotalCost:   decimal.NewNullDecimal(cost),
			Status:      models.ServiceRequestOpen,
			Details:     strings.TrimSpace(in.Details),
			RequestDate: s.now(),
		}
		if err := tx.SaveServiceRequest(ctx, req); err != nil {
			return err
		}
		req.Service = *svc

		inv, err = s.invoices.addCharge(ctx, tx, in.BookingID, ChargeRequest{
			Description: serviceLine(svc.Name, in.Quantity),
			Amount:      cost,
			Date:        req.RequestDate,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("service request created",
		zap.Uint("request_id", req.ID),
		zap.Uint("booking_id", req.BookingID),
		zap.String("invoice", inv.Code))
	return req, inv, nil
}

func serviceLine(name string, quantity int) string {
	if quantity > 1 {
		return fmt.Sprintf("%s x%d", name, quantity)
	}
	return name
}

func (s *ServiceRequestService) ListForBooking(ctx context.Context, bookingID uint) ([]models.ServiceRequest, error) {
	if _, err := s.store.FindBookingByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.store.ListServiceRequestsForBooking(ctx, bookingID)
}

func (s *ServiceRequestService) Complete(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	var req *models.ServiceRequest
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		if req, err = tx.FindServiceRequestByID(ctx, id); err != nil {
			return err
		}
		if req.Status != models.ServiceRequestOpen {
			return violation("service request %d is %s", id, req.Status)
		}
		req.Status = models.ServiceRequestCompleted
		return tx.SaveServiceRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Cancel closes an open request and books a credit line for its cost.
func (s *ServiceRequestService) Cancel(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	var req *models.ServiceRequest
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		if req, err = tx.FindServiceRequestByID(ctx, id); err != nil {
			return err
		}
		if req.Status != models.ServiceRequestOpen {
			return violation("service request %d is %s", id, req.Status)
		}
		req.Status = models.ServiceRequestCancelled
		if err := tx.SaveServiceRequest(ctx, req); err != nil {
			return err
		}
		cost, ok := req.Cost()
		if !ok || cost.IsZero() {
			return nil
		}
		_, err = s.invoices.addCharge(ctx, tx, req.BookingID, ChargeRequest{
			Description: "Cancelled: " + serviceLine(req.Service.Name, req.Quantity),
			Amount:      cost.Neg(),
			Date:        s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("service request cancelled", zap.Uint("request_id", id))
	return req, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

// TaxPolicy holds the rates applied to invoice lines. InitialRate covers the
// lines of the invoice assembled when a booking is created, ChargeRate the
// ad-hoc charges added afterwards.
type TaxPolicy struct {
	InitialRate decimal.Decimal
	ChargeRate  decimal.Decimal
}

func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{
		InitialRate: decimal.RequireFromString("0.15"),
		ChargeRate:  decimal.Zero,
	}
}

// ChargeRequest is a line to append to a booking's open invoice. Its tax
// always comes from the charge rate of the tax policy.
type ChargeRequest struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

type InvoiceService struct {
	store    Store
	tax      TaxPolicy
	currency string
	logger   *zap.Logger

	now     func() time.Time
	newCode func(time.Time) string
}

func NewInvoiceService(store Store, tax TaxPolicy, currency string, logger *zap.Logger) *InvoiceService {
	if currency == "" {
		currency = "USD"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		store:    store,
		tax:      tax,
		currency: currency,
		logger:   logger,
		now:      time.Now,
		newCode:  utils.NewInvoiceCode,
	}
}

func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	return s.store.FindInvoiceByID(ctx, id)
}

func (s *InvoiceService) ListForBooking(ctx context.Context, bookingID uint) ([]models.Invoice, error) {
	if _, err := s.store.FindBookingByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.store.ListInvoicesForBooking(ctx, bookingID)
}

// AddCharge appends a line to the latest open invoice of the booking, opening
// a new invoice when every existing one is paid or cancelled.
func (s *InvoiceService) AddCharge(ctx context.Context, bookingID uint, charge ChargeRequest) (*models.Invoice, error) {
	charge.Description = strings.TrimSpace(charge.Description)
	if charge.Description == "" {
		return nil, violation("a charge needs a description")
	}
	if charge.Amount.IsNegative() {
		return nil, violation("a charge amount cannot be negative")
	}

	var inv *models.Invoice
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		inv, err = s.addCharge(ctx, tx, bookingID, charge)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("charge added",
		zap.Uint("booking_id", bookingID),
		zap.String("invoice", inv.Code),
		zap.String("amount", charge.Amount.StringFixed(2)))
	return s.store.FindInvoiceByID(ctx, inv.ID)
}

// addCharge runs inside the caller's transaction. Amounts are not checked
// here so credits for cancelled services can be booked as negative lines;
// their tax reverses the tax of the original charge.
func (s *InvoiceService) addCharge(ctx context.Context, tx Store, bookingID uint, charge ChargeRequest) (*models.Invoice, error) {
	if err := tx.LockBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	inv, err := tx.FindOpenInvoiceForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		inv = s.newInvoice(bookingID)
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return nil, err
		}
	}

	tax := charge.Amount.Mul(s.tax.ChargeRate)
	date := charge.Date
	if date.IsZero() {
		date = s.now()
	}
	item := &models.InvoiceItem{
		InvoiceID:   inv.ID,
		Description: charge.Description,
		Amount:      charge.Amount,
		Tax:         decimal.NewNullDecimal(tax),
		Date:        date,
	}
	if err := tx.SaveInvoiceItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, tx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateInitialInvoice issues a fresh invoice listing the booking's rooms and
// the service requests that can be priced.
func (s *InvoiceService) CreateInitialInvoice(ctx context.Context, b *models.Booking) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.LockBooking(ctx, b.ID); err != nil {
			return err
		}
		requests, err := tx.ListServiceRequestsForBooking(ctx, b.ID)
		if err != nil {
			return err
		}

		inv = s.newInvoice(b.ID)
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}

		now := s.now()
		add := func(desc string, amount decimal.Decimal) error {
			return tx.SaveInvoiceItem(ctx, &models.InvoiceItem{
				InvoiceID:   inv.ID,
				Description: desc,
				Amount:      amount,
				Tax:         decimal.NewNullDecimal(amount.Mul(s.tax.InitialRate)),
				Date:        now,
			})
		}

		for _, it := range b.Items {
			name := it.RoomType.Name
			if name == "" {
				rt, err := tx.FindRoomTypeByID(ctx, it.RoomTypeID)
				if err != nil {
					return err
				}
				name = rt.Name
			}
			if err := add(AccommodationLine(name, b.CheckInDate, b.CheckOutDate), it.Price); err != nil {
				return err
			}
		}
		for i := range requests {
			r := &requests[i]
			if r.Status == models.ServiceRequestCancelled {
				continue
			}
			cost, ok := r.Cost()
			if !ok {
				continue
			}
			if err := add(r.Service.Name, cost); err != nil {
				return err
			}
		}
		return s.recompute(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("initial invoice issued",
		zap.Uint("booking_id", b.ID),
		zap.String("invoice", inv.Code),
		zap.String("total", inv.TotalAmount.StringFixed(2)))
	return inv, nil
}

// AccommodationLine renders the invoice description of one booked room.
func AccommodationLine(roomTypeName string, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("Accommodation: %s – (%s to %s)",
		roomTypeName, checkIn.Format(dateLayout), checkOut.Format(dateLayout))
}

func (s *InvoiceService) newInvoice(bookingID uint) *models.Invoice {
	now := s.now()
	return &models.Invoice{
		Code:        s.newCode(now),
		IssuedDate:  now,
		Status:      models.InvoiceStatusIssued,
		Currency:    s.currency,
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		TotalAmount: decimal.Zero,
		BookingID:   bookingID,
	}
}

// recompute rebuilds the invoice totals from its stored lines.
func (s *InvoiceService) recompute(ctx context.Context, tx Store, inv *models.Invoice) error {
	items, err := tx.ListInvoiceItems(ctx, inv.ID)
	if err != nil {
		return err
	}
	inv.Items = items
	inv.Subtotal, inv.TaxAmount, inv.TotalAmount = Totals(items)
	return tx.SaveInvoice(ctx, inv)
}

// Totals sums line amounts and line taxes; tax is rounded to cents once, on the sum.
func Totals(items []models.InvoiceItem) (subtotal, tax, total decimal.Decimal) {
	subtotal, tax = decimal.Zero, decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
		if it.Tax.Valid {
			tax = tax.Add(it.Tax.Decimal)
		}
	}
	tax = tax.Round(2)
	return subtotal, tax, subtotal.Add(tax)
}

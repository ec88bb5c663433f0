package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

// PaymentService applies confirmed payments: the invoice becomes PAID and a
// booking still awaiting approval becomes CONFIRMED, in one transaction.
type PaymentService struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentService(store Store, notifier Notifier, logger *zap.Logger) *PaymentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{store: store, notifier: notifier, logger: logger, now: time.Now}
}

func (s *PaymentService) ConfirmPayment(ctx context.Context, invoiceID uint, reference string) (*models.Invoice, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, violation("a payment reference is required")
	}

	var (
		inv     *models.Invoice
		booking *models.Booking
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		found, err := tx.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.LockBooking(ctx, found.BookingID); err != nil {
			return err
		}
		// re-read under the booking lock
		if inv, err = tx.FindInvoiceByID(ctx, invoiceID); err != nil {
			return err
		}
		if !inv.Open() {
			return violation("invoice %s is already %s", inv.Code, inv.Status)
		}

		paidAt := s.now()
		inv.Status = models.InvoiceStatusPaid
		inv.PaidAt = &paidAt
		inv.PaymentReference = reference
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}

		if booking, err = tx.FindBookingByID(ctx, inv.BookingID); err != nil {
			return err
		}
		if booking.Status == models.BookingStatusPendingApproval {
			if err := tx.UpdateBookingStatus(ctx, booking.ID, models.BookingStatusConfirmed); err != nil {
				return err
			}
			booking.Status = models.BookingStatusConfirmed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment confirmed",
		zap.Uint("invoice_id", inv.ID),
		zap.Uint("booking_id", booking.ID),
		zap.String("booking_status", booking.Status))
	s.notifier.PaymentConfirmed(context.WithoutCancel(ctx), inv, booking)
	return inv, nil
}

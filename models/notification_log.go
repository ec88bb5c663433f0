package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationBookingCreated   = "BOOKING_CREATED"
	NotificationPaymentConfirmed = "PAYMENT_CONFIRMED"

	NotificationChannelEmail = "EMAIL"
	NotificationChannelSMS   = "SMS"

	NotificationPending = "PENDING"
	NotificationSent    = "SENT"
	NotificationFailed  = "FAILED"
)

// NotificationLog records each outbound message so failed sends can be retried.
type NotificationLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Kind      string         `gorm:"column:kind;size:32;index" json:"kind"`
	Channel   string         `gorm:"column:channel;size:16" json:"channel"`
	Recipient string         `gorm:"column:recipient;size:255" json:"recipient"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	Status    string         `gorm:"column:status;size:16;index;default:PENDING" json:"status"`
	Attempts  int            `gorm:"column:attempts;default:0" json:"attempts"`
	LastError string         `gorm:"column:last_error;type:text" json:"lastError,omitempty"`

	BookingID *uint `gorm:"column:booking_id;index" json:"bookingId,omitempty"`
	InvoiceID *uint `gorm:"column:invoice_id;index" json:"invoiceId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

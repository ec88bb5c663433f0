package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusIssued    = "ISSUED"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code       string    `gorm:"column:code;size:64;uniqueIndex;not null" json:"code"`
	IssuedDate time.Time `gorm:"column:issued_date" json:"issuedDate"`
	Status     string    `gorm:"column:status;size:32;index" json:"status"`
	Currency   string    `gorm:"column:currency;size:3;default:USD" json:"currency"`

	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2)" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"column:tax_amount;type:decimal(12,2)" json:"taxAmount"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2)" json:"totalAmount"`

	PaymentReference string     `gorm:"column:payment_reference;size:128" json:"paymentReference,omitempty"`
	PaidAt           *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`

	BookingID uint          `gorm:"column:booking_id;index;not null" json:"bookingId"`
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Open reports whether charges may still be added to the invoice.
func (i *Invoice) Open() bool {
	return i.Status != InvoiceStatusPaid && i.Status != InvoiceStatusCancelled
}

type InvoiceItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceID   uint                `gorm:"column:invoice_id;index;not null" json:"invoiceId"`
	Description string              `gorm:"column:description;size:255" json:"description"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Tax         decimal.NullDecimal `gorm:"column:tax;type:decimal(12,4)" json:"tax"`
	Date        time.Time           `gorm:"column:date" json:"date"`

	CreatedAt time.Time `json:"createdAt"`
}

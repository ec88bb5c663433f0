package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ServiceRequestOpen      = "OPEN"
	ServiceRequestCompleted = "COMPLETED"
	ServiceRequestCancelled = "CANCELLED"
)

// HotelService is a billable add-on guests can order (room service, laundry, ...).
type HotelService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"column:name;size:150;uniqueIndex;not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2)" json:"price"`
	IsActive    bool            `gorm:"column:is_active;default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type ServiceRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint                `gorm:"column:booking_id;index;not null" json:"bookingId"`
	ServiceID uint                `gorm:"column:service_id;index;not null" json:"serviceId"`
	Quantity  int                 `gorm:"column:quantity;default:1" json:"quantity"`
	TotalCost decimal.NullDecimal `gorm:"column:total_cost;type:decimal(12,2)" json:"totalCost"`
	Status    string              `gorm:"column:status;size:32;default:OPEN" json:"status"`
	Details   string              `gorm:"column:details;type:text" json:"details,omitempty"`

	RequestDate time.Time `gorm:"column:request_date" json:"requestDate"`

	Service HotelService `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cost resolves the billable amount: the explicit total cost, else the service's list price.
// ok is false when neither is known.
func (r *ServiceRequest) Cost() (decimal.Decimal, bool) {
	if r.TotalCost.Valid {
		return r.TotalCost.Decimal, true
	}
	if r.Service.ID != 0 {
		return r.Service.Price, true
	}
	return decimal.Zero, false
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomType is a category of rooms sharing a nightly rate and an occupancy limit.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"column:name;size:120;uniqueIndex;not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`

	// BasePrice is nullable: a room type without a configured rate cannot be priced.
	BasePrice    decimal.NullDecimal `gorm:"column:base_price;type:decimal(12,2)" json:"basePrice"`
	MaxOccupancy int                 `gorm:"column:max_occupancy;not null;default:1" json:"maxOccupancy"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

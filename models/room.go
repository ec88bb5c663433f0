package models

import (
	"gorm.io/gorm"
)

const (
	RoomStatusAvailable   = "AVAILABLE"
	RoomStatusOccupied    = "OCCUPIED"
	RoomStatusMaintenance = "MAINTENANCE"
	RoomStatusCleaning    = "CLEANING"
)

type Room struct {
	gorm.Model

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50);not null"`
	RoomTypeID uint   `json:"roomTypeId" gorm:"column:room_type_id;index;not null"`
	Floor      string `json:"floor" gorm:"type:varchar(10)"`
	Status     string `json:"status" gorm:"column:status;size:32;default:AVAILABLE"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}

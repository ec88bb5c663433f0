package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func isRoomStatus(s string) bool {
	switch s {
	case models.RoomStatusAvailable, models.RoomStatusOccupied, models.RoomStatusMaintenance, models.RoomStatusCleaning:
		return true
	}
	return false
}

func (s *RoomService) checkRoom(tx *gorm.DB, room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return violation("room number is required")
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	if !isRoomStatus(room.Status) {
		return violation("unknown room status %q", room.Status)
	}
	var rt models.RoomType
	if err := tx.Select("id").First(&rt, room.RoomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, room.RoomTypeID)
		}
		return fmt.Errorf("find room type %d: %w", room.RoomTypeID, err)
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	db := s.DB.WithContext(ctx)
	if err := s.checkRoom(db, room); err != nil {
		return err
	}
	if err := db.Omit("RoomType").Create(room).Error; err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// GetAll lists rooms, optionally restricted to one room type.
func (s *RoomService) GetAll(ctx context.Context, roomTypeID *uint) ([]models.Room, error) {
	rooms := []models.Room{}
	q := s.DB.WithContext(ctx).Preload("RoomType").Order("room_number")
	if roomTypeID != nil {
		q = q.Where("room_type_id = ?", *roomTypeID)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("find room %d: %w", id, err)
	}
	return &room, nil
}

// RoomUpdate carries the editable fields; nil leaves a field unchanged.
type RoomUpdate struct {
	RoomNumber *string
	RoomTypeID *uint
	Floor      *string
	Status     *string
}

func (s *RoomService) Update(ctx context.Context, id uint, u RoomUpdate) (*models.Room, error) {
	db := s.DB.WithContext(ctx)
	var room models.Room
	if err := db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("find room %d: %w", id, err)
	}
	if u.RoomNumber != nil {
		room.RoomNumber = *u.RoomNumber
	}
	if u.RoomTypeID != nil {
		room.RoomTypeID = *u.RoomTypeID
	}
	if u.Floor != nil {
		room.Floor = *u.Floor
	}
	if u.Status != nil {
		room.Status = *u.Status
	}
	if err := s.checkRoom(db, &room); err != nil {
		return nil, err
	}
	if err := db.Omit("RoomType").Save(&room).Error; err != nil {
		return nil, fmt.Errorf("update room %d: %w", id, err)
	}
	return s.GetByID(ctx, id)
}

var activeBookingStatuses = []string{
	models.BookingStatusPendingApproval,
	models.BookingStatusConfirmed,
	models.BookingStatusCheckedIn,
}

// Delete refuses while an active booking has the room assigned.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.BookingItem{}).
			Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
			Where("booking_items.room_id = ?", id).
			Where("bookings.deleted_at IS NULL").
			Where("bookings.status IN ?", activeBookingStatuses).
			Count(&n).Error; err != nil {
			return fmt.Errorf("count active bookings of room %d: %w", id, err)
		}
		if n > 0 {
			return violation("room %d is assigned to %d active bookings", id, n)
		}
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete room %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
		}
		return nil
	})
}

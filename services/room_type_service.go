package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

func validateRoomType(rt *models.RoomType) error {
	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Name == "" {
		return violation("room type name is required")
	}
	if rt.MaxOccupancy < 1 {
		return violation("max occupancy must be at least 1")
	}
	if rt.BasePrice.Valid && rt.BasePrice.Decimal.IsNegative() {
		return violation("base price cannot be negative")
	}
	return nil
}

func (s *RoomTypeService) Create(ctx context.Context, rt *models.RoomType) error {
	if err := validateRoomType(rt); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("create room type: %w", err)
	}
	return nil
}

func (s *RoomTypeService) GetAll(ctx context.Context) ([]models.RoomType, error) {
	types := []models.RoomType{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	return types, nil
}

func (s *RoomTypeService) GetByID(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, id)
		}
		return nil, fmt.Errorf("find room type %d: %w", id, err)
	}
	return &rt, nil
}

// RoomTypeUpdate carries the editable fields; nil leaves a field unchanged.
type RoomTypeUpdate struct {
	Name         *string
	Description  *string
	BasePrice    *decimal.Decimal
	MaxOccupancy *int
}

func (s *RoomTypeService) Update(ctx context.Context, id uint, u RoomTypeUpdate) (*models.RoomType, error) {
	rt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		rt.Name = *u.Name
	}
	if u.Description != nil {
		rt.Description = *u.Description
	}
	if u.BasePrice != nil {
		rt.BasePrice = decimal.NewNullDecimal(*u.BasePrice)
	}
	if u.MaxOccupancy != nil {
		rt.MaxOccupancy = *u.MaxOccupancy
	}
	if err := validateRoomType(rt); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(rt).Error; err != nil {
		return nil, fmt.Errorf("update room type %d: %w", id, err)
	}
	return rt, nil
}

// Delete refuses while physical rooms still reference the type.
func (s *RoomTypeService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Room{}).Where("room_type_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count rooms of type %d: %w", id, err)
		}
		if n > 0 {
			return violation("room type %d still has %d rooms", id, n)
		}
		res := tx.Delete(&models.RoomType{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete room type %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", ErrRoomTypeNotFound, id)
		}
		return nil
	})
}

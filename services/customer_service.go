package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
)

type CustomerService struct {
	DB *gorm.DB
}

// NewCustomerService Constructor สำหรับ Dependency Injection
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

// Create รับ Pointer เพื่อให้ GORM อัปเดต Customer.ID กลับมา
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) error {
	customer.FullName = strings.TrimSpace(customer.FullName)
	customer.Email = strings.TrimSpace(customer.Email)
	customer.Phone = strings.TrimSpace(customer.Phone)
	if customer.FullName == "" {
		return violation("customer full name is required")
	}
	if customer.Email != "" && !strings.Contains(customer.Email, "@") {
		return violation("invalid email %q", customer.Email)
	}
	if err := s.DB.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrCustomerNotFound, id)
		}
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return &c, nil
}

package models

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model

	FullName string `json:"fullName" gorm:"column:full_name;size:255;not null"`
	Email    string `json:"email" gorm:"column:email;size:150;index"`
	Phone    string `json:"phone" gorm:"column:phone;size:32"`
}

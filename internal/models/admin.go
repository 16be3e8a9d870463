package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Admin struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Fname     string    `json:"fname" gorm:"type:varchar(100);not null"`
	Lname     string    `json:"lname" gorm:"type:varchar(100);not null"`
	Username  string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(50);not null"`
	IsActive  bool      `json:"isActive" gorm:"not null"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AdminSummary is read from the admins table but never carries credentials.
type AdminSummary struct {
	ID       string `json:"id"`
	Fname    string `json:"fname"`
	Lname    string `json:"lname"`
	Username string `json:"username"`
}

func (AdminSummary) TableName() string {
	return "admins"
}

type AdminRole string

const (
	RoleAdmin AdminRole = "admin"
	RoleOwner AdminRole = "owner"
)

type RegisterRequest struct {
	Fname    string `json:"fname" validate:"required"`
	Lname    string `json:"lname"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
	Phone    string `json:"phone" validate:"required"`
	IsActive *bool  `json:"isActive"`
	Role     string `json:"role" validate:"omitempty,oneof=admin owner"`
}

// AdminPatch carries the fields an update overwrites; nil means keep.
type AdminPatch struct {
	Fname    *string `json:"fname" validate:"omitnil,min=1"`
	Lname    *string `json:"lname"`
	Username *string `json:"username" validate:"omitnil,min=1"`
	Password *string `json:"password" validate:"omitnil,min=1,max=72"`
	Phone    *string `json:"phone" validate:"omitnil,min=1"`
	IsActive *bool   `json:"isActive"`
	Role     *string `json:"role" validate:"omitnil,oneof=admin owner"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin"`
}

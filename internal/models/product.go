package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title       string           `json:"title" gorm:"type:varchar(255);uniqueIndex;not null"`
	Price       float64          `json:"price" gorm:"type:decimal(12,2);not null"`
	OldPrice    float64          `json:"oldPrice" gorm:"type:decimal(12,2);not null"`
	Stock       int              `json:"stock" gorm:"not null"`
	Rating      float64          `json:"rating" gorm:"not null"`
	Views       int              `json:"views" gorm:"not null"`
	Units       string           `json:"units" gorm:"type:varchar(10);not null"`
	Description string           `json:"description" gorm:"type:text;not null"`
	URLs        []string         `json:"urls" gorm:"column:urls;type:text;serializer:json"`
	Info        []any            `json:"info" gorm:"type:text;serializer:json"`
	Available   bool             `json:"available" gorm:"not null"`
	CategoryID  string           `json:"categoryId" gorm:"type:varchar(36);index;not null"`
	Category    *CategorySummary `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AdminID     string           `json:"adminId" gorm:"type:varchar(36);index;not null"`
	Admin       *AdminSummary    `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ProductUnit string

const (
	UnitKg    ProductUnit = "kg"
	UnitMeter ProductUnit = "m"
	UnitLitre ProductUnit = "litr"
	UnitPiece ProductUnit = "dona"
)

// ProductRequest is the full product shape accepted on create and update.
// Price is a pointer so that an explicit zero passes "required".
type ProductRequest struct {
	Title       string   `json:"title" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	OldPrice    float64  `json:"oldPrice" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Rating      float64  `json:"rating" validate:"gte=0"`
	Views       int      `json:"views" validate:"gte=0"`
	CategoryID  string   `json:"categoryId" validate:"required,uuid"`
	Units       string   `json:"units" validate:"required,oneof=kg m litr dona"`
	Description string   `json:"description" validate:"required"`
	URLs        []string `json:"urls" validate:"omitempty,dive,url"`
	Info        []any    `json:"info"`
	Available   *bool    `json:"available"`
}

type ProductQuery struct {
	Limit      int
	Skip       int
	SortBy     string
	SortOrder  string
	CategoryID string
}

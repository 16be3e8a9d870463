package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title     string        `json:"title" gorm:"type:varchar(255);uniqueIndex;not null"`
	AdminID   string        `json:"adminId" gorm:"type:varchar(36);index;not null"`
	Admin     *AdminSummary `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CategorySummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (CategorySummary) TableName() string {
	return "categories"
}

type CategoryRequest struct {
	Title string `json:"title" validate:"required"`
}

type CategoryResult struct {
	Category  *Category     `json:"category"`
	CreatedBy *AdminSummary `json:"createdBy,omitempty"`
	UpdatedBy *AdminSummary `json:"updatedBy,omitempty"`
	DeletedBy *AdminSummary `json:"deletedBy,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	Text      string        `json:"text" gorm:"type:text;not null"`
	Rating    float64       `json:"rating" gorm:"not null"`
	ProductID string        `json:"productId" gorm:"type:varchar(36);index;not null"`
	AdminID   string        `json:"adminId" gorm:"type:varchar(36);index;not null"`
	Admin     *AdminSummary `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CommentRequest struct {
	Text      string   `json:"text" validate:"required"`
	ProductID string   `json:"productId" validate:"required,uuid"`
	Rating    *float64 `json:"rating" validate:"required"`
}

type CommentResult struct {
	Comment   *Comment      `json:"comment"`
	CreatedBy *AdminSummary `json:"createdBy,omitempty"`
	UpdatedBy *AdminSummary `json:"updatedBy,omitempty"`
	DeletedBy *AdminSummary `json:"deletedBy,omitempty"`
}

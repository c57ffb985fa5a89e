package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the catalog.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:150;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:150;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Image       string    `json:"image,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

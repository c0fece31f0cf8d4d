package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is an uploaded photo attached to a property. Images are created via
// upload only, never updated, and are not deletable on their own.
type Image struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	Path       string    `gorm:"type:varchar(255);not null" json:"path"`
	CreatedAt  time.Time `json:"created_at"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"-"`
}

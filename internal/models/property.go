package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyType string

const (
	TypeAppartement PropertyType = "Appartement"
	TypeVilla       PropertyType = "Villa"
	TypeTerrain     PropertyType = "Terrain"
	TypeStudio      PropertyType = "Studio"
	TypeDuplex      PropertyType = "Duplex"
)

type PropertyStatus string

const (
	StatusDisponible PropertyStatus = "disponible"
	StatusVendu      PropertyStatus = "vendu"
	StatusLocation   PropertyStatus = "location"
)

type Property struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         PropertyType   `gorm:"type:varchar(20);not null" json:"type"`
	Rooms        *int           `json:"rooms"`
	Surface      float64        `gorm:"type:decimal(12,2);not null" json:"surface"`
	Price        float64        `gorm:"type:decimal(15,2);not null" json:"price"`
	City         string         `gorm:"type:varchar(255);not null;index" json:"city"`
	Neighborhood string         `gorm:"type:varchar(255)" json:"neighborhood"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Status       PropertyStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Published    bool           `gorm:"default:false" json:"published"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User   User    `gorm:"foreignKey:UserID" json:"user"`
	Images []Image `gorm:"foreignKey:PropertyID" json:"images"`
}

// GenerateTitle derives the display title from the property's descriptive
// fields. The stored title always goes through this function; caller-supplied
// titles are discarded on create as well as update.
func GenerateTitle(ptype PropertyType, rooms *int, city, neighborhood string) string {
	var b strings.Builder
	b.WriteString(string(ptype))
	if rooms != nil {
		fmt.Fprintf(&b, " %d pièces", *rooms)
	}
	fmt.Fprintf(&b, " à %s", city)
	if neighborhood != "" {
		fmt.Fprintf(&b, " - %s", neighborhood)
	}
	return b.String()
}

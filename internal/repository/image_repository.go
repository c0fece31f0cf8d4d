package repository

import (
	"github.com/digitup/immo-api/internal/models"
	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// CreateBatch inserts all rows inside a single transaction. A failed insert
// rolls the whole batch back so an upload is never partially recorded.
func (r *ImageRepository) CreateBatch(images []models.Image) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range images {
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

package repository

import (
	"errors"
	"strings"

	"github.com/digitup/immo-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PropertyFilter narrows the property listing. Zero values (empty string,
// nil pointer) mean "no constraint" for that field.
type PropertyFilter struct {
	City     string
	Type     string
	MinPrice *float64
	MaxPrice *float64
	Status   string
	Search   string
	Page     int
	PerPage  int
}

// PropertyPage is one page of filtered results with pagination metadata.
type PropertyPage struct {
	Properties  []models.Property
	Total       int64
	CurrentPage int
	PerPage     int
	LastPage    int
}

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// GetAllFiltered returns non-deleted properties matching the filter, newest
// first, with owner and images preloaded. Search matches title or description
// case-insensitively. Price bounds are inclusive.
func (r *PropertyRepository) GetAllFiltered(filter PropertyFilter) (*PropertyPage, error) {
	query := r.db.Model(&models.Property{})

	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			r.db.Where("lower(title) LIKE ?", pattern).Or("lower(description) LIKE ?", pattern),
		)
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var properties []models.Property
	err := query.
		Preload("User").
		Preload("Images").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &PropertyPage{
		Properties:  properties,
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    lastPage,
	}, nil
}

// FindByID returns a property with owner and images preloaded, or nil when
// the row is absent or soft-deleted.
func (r *PropertyRepository) FindByID(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.Preload("User").Preload("Images").Where("id = ?", id).First(&property).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &property, nil
}

func (r *PropertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

// Save writes every field back, including zero values. Updates are full
// replacements, there is no partial-merge path.
func (r *PropertyRepository) Save(property *models.Property) error {
	return r.db.Save(property).Error
}

// Delete soft-deletes the property (sets deleted_at, keeps the row).
func (r *PropertyRepository) Delete(property *models.Property) error {
	return r.db.Delete(property).Error
}

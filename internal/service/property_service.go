package service

import (
	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyInput carries validated fields from the request into the service.
// Create and update take the same shape: updates replace every field.
type PropertyInput struct {
	Type         models.PropertyType
	Rooms        *int
	Surface      float64
	Price        float64
	City         string
	Neighborhood string
	Description  string
	Status       models.PropertyStatus
	Published    bool
}

type PropertyService struct {
	repo *repository.PropertyRepository
}

func NewPropertyService(repo *repository.PropertyRepository) *PropertyService {
	return &PropertyService{repo: repo}
}

// List returns a filtered, paginated page of properties.
func (s *PropertyService) List(filter repository.PropertyFilter) (*repository.PropertyPage, error) {
	page, err := s.repo.GetAllFiltered(filter)
	if err != nil {
		logger.Log.Error("Failed to list properties", zap.Error(err))
		return nil, err
	}
	return page, nil
}

// GetByID returns a property with relations loaded, or nil when absent or
// soft-deleted.
func (s *PropertyService) GetByID(id uuid.UUID) (*models.Property, error) {
	return s.repo.FindByID(id)
}

// Create builds the entity from validated input, derives the title and
// persists it. The stored record is re-read so relations come back loaded.
func (s *PropertyService) Create(input PropertyInput, actorID uuid.UUID) (*models.Property, error) {
	property := &models.Property{
		ID:           uuid.New(),
		UserID:       actorID,
		Type:         input.Type,
		Rooms:        input.Rooms,
		Surface:      input.Surface,
		Price:        input.Price,
		City:         input.City,
		Neighborhood: input.Neighborhood,
		Description:  input.Description,
		Status:       input.Status,
		Published:    input.Published,
		Title:        models.GenerateTitle(input.Type, input.Rooms, input.City, input.Neighborhood),
	}

	if err := s.repo.Create(property); err != nil {
		logger.Log.Error("Failed to create property",
			zap.String("user_id", actorID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("user_id", actorID.String()),
		zap.String("title", property.Title),
	)

	return s.repo.FindByID(property.ID)
}

// Update replaces every updatable field and re-derives the title. The owner
// reference is never touched.
func (s *PropertyService) Update(property *models.Property, input PropertyInput) (*models.Property, error) {
	property.Type = input.Type
	property.Rooms = input.Rooms
	property.Surface = input.Surface
	property.Price = input.Price
	property.City = input.City
	property.Neighborhood = input.Neighborhood
	property.Description = input.Description
	property.Status = input.Status
	property.Published = input.Published
	property.Title = models.GenerateTitle(input.Type, input.Rooms, input.City, input.Neighborhood)

	if err := s.repo.Save(property); err != nil {
		logger.Log.Error("Failed to update property",
			zap.String("property_id", property.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Property updated",
		zap.String("property_id", property.ID.String()),
		zap.String("title", property.Title),
	)

	return s.repo.FindByID(property.ID)
}

// Delete soft-deletes the property. The row stays behind deleted_at and
// disappears from every default query.
func (s *PropertyService) Delete(property *models.Property) error {
	if err := s.repo.Delete(property); err != nil {
		logger.Log.Error("Failed to delete property",
			zap.String("property_id", property.ID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Property deleted", zap.String("property_id", property.ID.String()))
	return nil
}

package testutil

import (
	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/utils"
	"github.com/google/uuid"
)

// CreateTestUser builds a user with a hashed password, ready to insert.
func CreateTestUser(name, email, password string, role models.Role) (*models.User, error) {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}

// CreateTestProperty builds a published villa in Alger owned by the given
// user, with the title derived the same way the service derives it.
func CreateTestProperty(ownerID uuid.UUID) *models.Property {
	rooms := 4
	return CustomTestProperty(ownerID, models.TypeVilla, &rooms, 25000000, "Alger", "Hydra", models.StatusDisponible)
}

// CustomTestProperty builds a property with the given descriptive fields.
func CustomTestProperty(ownerID uuid.UUID, ptype models.PropertyType, rooms *int, price float64, city, neighborhood string, status models.PropertyStatus) *models.Property {
	return &models.Property{
		ID:           uuid.New(),
		UserID:       ownerID,
		Type:         ptype,
		Rooms:        rooms,
		Surface:      200,
		Price:        price,
		City:         city,
		Neighborhood: neighborhood,
		Description:  "Bien immobilier de qualité dans un quartier recherché.",
		Status:       status,
		Published:    true,
		Title:        models.GenerateTitle(ptype, rooms, city, neighborhood),
	}
}

// IntPtr is a helper for optional room counts in table tests.
func IntPtr(v int) *int {
	return &v
}

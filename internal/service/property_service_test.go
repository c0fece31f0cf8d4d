package service_test

import (
	"testing"

	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/internal/service"
	"github.com/digitup/immo-api/internal/testutil"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PropertyServiceTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	svc    *service.PropertyService
	owner  *models.User
}

func (s *PropertyServiceTestSuite) SetupSuite() {
	require.NoError(s.T(), logger.Init(false))
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.svc = service.NewPropertyService(repository.NewPropertyRepository(s.testDB.DB))
}

func (s *PropertyServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *PropertyServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	owner, err := testutil.CreateTestUser("Agent Immobilier", "agent@digitup.com", "Password1", models.RoleAgent)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(owner).Error)
	s.owner = owner
}

func villaInput() service.PropertyInput {
	rooms := 4
	return service.PropertyInput{
		Type:         models.TypeVilla,
		Rooms:        &rooms,
		Surface:      200,
		Price:        25000000,
		City:         "Alger",
		Neighborhood: "Hydra",
		Description:  "Belle villa",
		Status:       models.StatusDisponible,
		Published:    true,
	}
}

func (s *PropertyServiceTestSuite) TestCreateDerivesTitle() {
	property, err := s.svc.Create(villaInput(), s.owner.ID)
	require.NoError(s.T(), err)
	s.Require().NotNil(property)

	s.Equal("Villa 4 pièces à Alger - Hydra", property.Title)
	s.Equal(s.owner.ID, property.UserID)
	// Relations come back loaded
	s.Equal(s.owner.Name, property.User.Name)
}

func (s *PropertyServiceTestSuite) TestCreateWithoutRoomsOrNeighborhood() {
	input := villaInput()
	input.Type = models.TypeTerrain
	input.Rooms = nil
	input.City = "Blida"
	input.Neighborhood = ""

	property, err := s.svc.Create(input, s.owner.ID)
	require.NoError(s.T(), err)
	s.Equal("Terrain à Blida", property.Title)
}

func (s *PropertyServiceTestSuite) TestUpdateRecomputesTitle() {
	property, err := s.svc.Create(villaInput(), s.owner.ID)
	require.NoError(s.T(), err)

	input := villaInput()
	input.Type = models.TypeAppartement
	rooms := 3
	input.Rooms = &rooms
	input.City = "Oran"
	input.Neighborhood = "Es Senia"

	updated, err := s.svc.Update(property, input)
	require.NoError(s.T(), err)
	s.Equal("Appartement 3 pièces à Oran - Es Senia", updated.Title)
}

func (s *PropertyServiceTestSuite) TestUpdateIsFullReplace() {
	property, err := s.svc.Create(villaInput(), s.owner.ID)
	require.NoError(s.T(), err)
	s.True(property.Published)

	input := villaInput()
	input.Rooms = nil
	input.Published = false
	input.Status = models.StatusVendu

	updated, err := s.svc.Update(property, input)
	require.NoError(s.T(), err)

	// Zero values are written through, not merged away
	s.Nil(updated.Rooms)
	s.False(updated.Published)
	s.Equal(models.StatusVendu, updated.Status)
	s.Equal("Villa à Alger - Hydra", updated.Title)
	// Owner is never changed by an update
	s.Equal(s.owner.ID, updated.UserID)
}

func (s *PropertyServiceTestSuite) TestDeleteIsSoft() {
	property, err := s.svc.Create(villaInput(), s.owner.ID)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.svc.Delete(property))

	found, err := s.svc.GetByID(property.ID)
	require.NoError(s.T(), err)
	s.Nil(found)

	var count int64
	s.testDB.DB.Unscoped().Model(&models.Property{}).Count(&count)
	s.Equal(int64(1), count)
}

func (s *PropertyServiceTestSuite) TestListDelegatesFilter() {
	_, err := s.svc.Create(villaInput(), s.owner.ID)
	require.NoError(s.T(), err)

	input := villaInput()
	input.City = "Oran"
	input.Neighborhood = ""
	_, err = s.svc.Create(input, s.owner.ID)
	require.NoError(s.T(), err)

	page, err := s.svc.List(repository.PropertyFilter{City: "Oran"})
	require.NoError(s.T(), err)
	s.Equal(int64(1), page.Total)
}

func TestPropertyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyServiceTestSuite))
}

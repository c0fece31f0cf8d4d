package main

import (
	"log"

	"github.com/digitup/immo-api/internal/config"
	"github.com/digitup/immo-api/internal/database"
	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/utils"
	"github.com/google/uuid"
)

type seedUser struct {
	name  string
	email string
	role  models.Role
}

type seedProperty struct {
	ptype        models.PropertyType
	rooms        *int
	surface      float64
	price        float64
	city         string
	neighborhood string
	description  string
	status       models.PropertyStatus
	published    bool
}

func intPtr(v int) *int { return &v }

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	// Idempotency check: if the admin exists the data set was already seeded
	var admin models.User
	if err := database.DB.Where("email = ?", "admin@digitup.com").First(&admin).Error; err == nil {
		log.Println("Seed data already present, admin:", admin.Email)
		return
	}

	passwordHash, err := utils.HashPassword("password")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	seedUsers := []seedUser{
		{"Admin User", "admin@digitup.com", models.RoleAdmin},
		{"Agent Immobilier", "agent@digitup.com", models.RoleAgent},
		{"Agent Alger", "agent.alger@digitup.com", models.RoleAgent},
		{"Visiteur", "guest@digitup.com", models.RoleGuest},
	}

	var agents []models.User
	for _, su := range seedUsers {
		user := models.User{
			ID:           uuid.New(),
			Name:         su.name,
			Email:        su.email,
			PasswordHash: passwordHash,
			Role:         su.role,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}
		if user.Role == models.RoleAdmin || user.Role == models.RoleAgent {
			agents = append(agents, user)
		}
	}

	seedProperties := []seedProperty{
		{models.TypeVilla, intPtr(6), 350, 45000000, "Alger", "Hydra",
			"Magnifique villa moderne avec piscine et jardin. Vue panoramique sur la mer. Quartier calme et sécurisé.",
			models.StatusDisponible, true},
		{models.TypeAppartement, intPtr(4), 120, 18000000, "Alger", "Bab Ezzouar",
			"Appartement F4 récent avec parking et ascenseur. Proche de toutes commodités.",
			models.StatusDisponible, true},
		{models.TypeAppartement, intPtr(3), 85, 12000000, "Oran", "Es Senia",
			"F3 bien situé, ensoleillé, idéal pour famille.",
			models.StatusDisponible, true},
		{models.TypeVilla, intPtr(5), 280, 35000000, "Constantine", "Belle Vue",
			"Villa spacieuse avec grand jardin et garage double.",
			models.StatusVendu, true},
		{models.TypeStudio, intPtr(1), 35, 4500000, "Alger", "El Biar",
			"Studio meublé, idéal pour étudiant ou célibataire.",
			models.StatusLocation, true},
		{models.TypeDuplex, intPtr(5), 180, 28000000, "Alger", "Dely Ibrahim",
			"Duplex moderne avec terrasse, standing élevé.",
			models.StatusDisponible, true},
		{models.TypeTerrain, nil, 500, 15000000, "Blida", "",
			"Terrain constructible 500m², bien situé, acte notarié.",
			models.StatusDisponible, true},
		{models.TypeAppartement, intPtr(2), 65, 8500000, "Annaba", "Centre-ville",
			"F2 en centre-ville, proche marché et transports.",
			models.StatusDisponible, false},
	}

	for i, sp := range seedProperties {
		owner := agents[i%len(agents)]
		property := models.Property{
			ID:           uuid.New(),
			UserID:       owner.ID,
			Type:         sp.ptype,
			Rooms:        sp.rooms,
			Surface:      sp.surface,
			Price:        sp.price,
			City:         sp.city,
			Neighborhood: sp.neighborhood,
			Description:  sp.description,
			Status:       sp.status,
			Published:    sp.published,
			Title:        models.GenerateTitle(sp.ptype, sp.rooms, sp.city, sp.neighborhood),
		}
		if err := database.DB.Create(&property).Error; err != nil {
			log.Fatal("Failed to create property:", err)
		}
	}

	log.Printf("Seeded %d users and %d properties", len(seedUsers), len(seedProperties))
}

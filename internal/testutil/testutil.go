package testutil

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/digitup/immo-api/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestDatabase holds test database connection (in-memory SQLite)
type TestDatabase struct {
	DB *gorm.DB
}

// TestRedis holds a miniredis server and a client pointed at it
type TestRedis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// SetupTestDatabase creates an in-memory SQLite database and migrates the
// real models. IDs are always assigned in Go code, so the schema carries no
// Postgres-only defaults and works on SQLite unchanged.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Property{}, &models.Image{}); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{DB: db}
}

// Teardown closes the test database connection
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis starts a miniredis server with a connected client
func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	return &TestRedis{
		Server: server,
		Client: client,
	}
}

// Teardown closes the client and stops the miniredis server
func (tr *TestRedis) Teardown(t *testing.T) {
	if err := tr.Client.Close(); err != nil {
		t.Logf("Warning: Failed to close redis client: %v", err)
	}
	tr.Server.Close()
}

// CleanDatabase deletes all records from tables (for test isolation)
func CleanDatabase(t *testing.T, db *gorm.DB) {
	tables := []string{"images", "properties", "users"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}

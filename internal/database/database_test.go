package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wnt/memeforge/internal/config"
)

// TestConnectWithMissingSettings tests that Connect fails fast without a host or database name
func TestConnectWithMissingSettings(t *testing.T) {
	db, err := Connect(config.Config{DBUser: "memeforge", DBPort: "5432"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

// TestConnectWithInvalidCredentials tests that Connect returns an error with invalid credentials
func TestConnectWithInvalidCredentials(t *testing.T) {
	// Skip in CI environment or when not explicitly enabled
	if os.Getenv("RUN_DB_TESTS") != "true" {
		t.Skip("Skipping database connection test. Set RUN_DB_TESTS=true to enable.")
	}

	db, err := Connect(config.Config{
		DBHost:     "localhost",
		DBUser:     "nonexistentuser",
		DBPassword: "wrongpassword",
		DBName:     "nonexistentdb",
		DBPort:     "5432",
		DBSSLMode:  "disable",
	})
	assert.Error(t, err)
	assert.Nil(t, db)
}

package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"scout-hand/models"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(&models.Scout{}, &models.Player{}, &models.Lead{}, &models.Observation{})
	require.NoError(t, err, "Failed to migrate schema")
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func seedScout(t *testing.T, db *gorm.DB, role string) *models.Scout {
	t.Helper()
	scout := &models.Scout{
		Name:        "Scout " + uuid.NewString()[:8],
		Email:       uuid.NewString() + "@test.local",
		AccessToken: uuid.NewString(),
		Role:        role,
		Active:      true,
	}
	require.NoError(t, db.Create(scout).Error)
	return scout
}

// seedLead inserts a lead directly with a computed signature and an explicit
// created_at, so ordering assertions are deterministic.
func seedLead(t *testing.T, db *gorm.DB, scoutID uint, team string, matchAt time.Time, jersey *int, createdAt time.Time) *models.Lead {
	t.Helper()
	lead := &models.Lead{
		ScoutID:      scoutID,
		TeamName:     team,
		MatchAt:      matchAt,
		JerseyNumber: jersey,
		DedupeSig:    ComputeSignature(team, &matchAt, jersey),
		Status:       models.StatusPending,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func seedPlayer(t *testing.T, db *gorm.DB, name string) *models.Player {
	t.Helper()
	player := &models.Player{
		DisplayName: name,
		DateOfBirth: time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(player).Error)
	return player
}

func reloadLeads(t *testing.T, db *gorm.DB, signature string) []models.Lead {
	t.Helper()
	var leads []models.Lead
	require.NoError(t, db.Where("dedupe_sig = ?", signature).Find(&leads).Error)
	return leads
}

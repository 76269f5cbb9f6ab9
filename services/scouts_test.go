package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scout-hand/models"
)

func TestScoutCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScoutService(db, testLogger())

	t.Run("DefaultsToScoutRole", func(t *testing.T) {
		scout, err := svc.Create(ScoutInput{Name: "Mara", Email: "Mara@Club.example"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleScout, scout.Role)
		assert.Equal(t, "mara@club.example", scout.Email)
		assert.NotEmpty(t, scout.AccessToken)
		assert.True(t, scout.Active)
	})

	t.Run("RejectsUnknownRole", func(t *testing.T) {
		_, err := svc.Create(ScoutInput{Name: "Jo", Email: "jo@club.example", Role: "superuser"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("RequiresNameAndEmail", func(t *testing.T) {
		_, err := svc.Create(ScoutInput{Email: "x@club.example"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestScoutByToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScoutService(db, testLogger())

	created, err := svc.Create(ScoutInput{Name: "Mara", Email: "mara@club.example"})
	require.NoError(t, err)

	resolved, err := svc.ByToken(created.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)

	_, err = svc.ByToken("")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ByToken("not-a-token")
	assert.ErrorIs(t, err, ErrForbidden)

	// Deaktivierte Accounts dürfen sich nicht mehr anmelden.
	require.NoError(t, svc.Deactivate(created.ID))
	_, err = svc.ByToken(created.AccessToken)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestScoutEnsureSeedAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScoutService(db, testLogger())

	require.NoError(t, svc.EnsureSeedAdmin("admin@club.example", "seed-token"))

	admin, err := svc.ByToken("seed-token")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	// Zweiter Aufruf legt keinen weiteren Admin an.
	require.NoError(t, svc.EnsureSeedAdmin("admin@club.example", "other-token"))
	var count int64
	require.NoError(t, db.Model(&models.Scout{}).Where("role = ?", models.RoleAdmin).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

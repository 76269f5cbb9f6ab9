package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scout-hand/models"
)

func TestObservationCreate(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	db := setupTestDB(t)
	svc := NewObservationService(db, testLogger())
	scout := seedScout(t, db, models.RoleScout)

	obs, err := svc.Create(scout, ObservationInput{
		SessionRef: "2026-03-14-blue-fc",
		TeamName:   "Blue FC",
		MatchAt:    kickoff,
		Technique:  4,
		Pace:       5,
		GameSense:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, scout.ID, obs.ScoutID)

	_, err = svc.Create(scout, ObservationInput{TeamName: "Blue FC"})
	assert.ErrorIs(t, err, ErrValidation, "session_ref is required")

	_, err = svc.Create(scout, ObservationInput{SessionRef: "s", Pace: 6})
	assert.ErrorIs(t, err, ErrValidation, "ratings are capped at 5")
}

func TestObservationUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewObservationService(db, testLogger())
	owner := seedScout(t, db, models.RoleScout)
	other := seedScout(t, db, models.RoleScout)

	obs, err := svc.Create(owner, ObservationInput{SessionRef: "s1", Technique: 2})
	require.NoError(t, err)

	updated, err := svc.Update(owner, obs.ID, map[string]interface{}{"notes": "strong left foot"})
	require.NoError(t, err)
	assert.Equal(t, "strong left foot", updated.Notes)

	_, err = svc.Update(other, obs.ID, map[string]interface{}{"notes": "nope"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(owner, obs.ID, map[string]interface{}{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(owner, 4711, map[string]interface{}{"notes": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObservationQuery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewObservationService(db, testLogger())
	scoutA := seedScout(t, db, models.RoleScout)
	scoutB := seedScout(t, db, models.RoleScout)
	admin := seedScout(t, db, models.RoleAdmin)

	_, err := svc.Create(scoutA, ObservationInput{SessionRef: "s1", TeamName: "Blue FC"})
	require.NoError(t, err)
	_, err = svc.Create(scoutB, ObservationInput{SessionRef: "s2", TeamName: "Red Rovers"})
	require.NoError(t, err)

	own, err := svc.Query(scoutA, ObservationQuery{})
	require.NoError(t, err)
	require.Len(t, own, 1, "scouts only see their own sessions")
	assert.Equal(t, "s1", own[0].SessionRef)

	all, err := svc.Query(admin, ObservationQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.Query(admin, ObservationQuery{TeamName: "red"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "s2", filtered[0].SessionRef)
}

func TestObservationGetOwned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewObservationService(db, testLogger())
	owner := seedScout(t, db, models.RoleScout)
	other := seedScout(t, db, models.RoleScout)

	obs, err := svc.Create(owner, ObservationInput{SessionRef: "s1"})
	require.NoError(t, err)

	loaded, err := svc.GetOwned(owner, obs.ID)
	require.NoError(t, err)
	assert.Equal(t, obs.ID, loaded.ID)

	// Der Upload-Handler prüft hiermit, bevor er etwas nach S3 schreibt:
	// fremde und unbekannte Beobachtungen dürfen keinen Upload auslösen.
	_, err = svc.GetOwned(other, obs.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOwned(owner, 4711)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObservationAttachVoiceNote(t *testing.T) {
	db := setupTestDB(t)
	svc := NewObservationService(db, testLogger())
	scout := seedScout(t, db, models.RoleScout)

	obs, err := svc.Create(scout, ObservationInput{SessionRef: "s1"})
	require.NoError(t, err)

	updated, err := svc.AttachVoiceNote(scout, obs.ID, "https://media.example/observations/1/voice-note.m4a")
	require.NoError(t, err)
	assert.Contains(t, updated.VoiceNoteURL, "voice-note")
}

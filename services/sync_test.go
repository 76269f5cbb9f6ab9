package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"scout-hand/config"
	"scout-hand/models"
	"scout-hand/providers"
)

// stubProvider liefert einen festen Club oder schlägt fehl.
type stubProvider struct {
	name    string
	club    string
	failErr error
}

var _ providers.Provider = (*stubProvider)(nil)

func (p *stubProvider) Search(string) ([]*models.Player, error) {
	return nil, p.failErr
}

func (p *stubProvider) Enrich(player *models.Player) error {
	if p.failErr != nil {
		return p.failErr
	}
	player.ClubName = p.club
	return nil
}

func (p *stubProvider) Name() string { return p.name }

func newTestSyncService(db *gorm.DB, provs ...providers.Provider) *SyncService {
	return NewSyncService(&config.Config{SyncMaxParallel: 2}, db, nil, testLogger(), provs)
}

func seedLinkedPlayer(t *testing.T, db *gorm.DB, name, profileURL string) *models.Player {
	t.Helper()
	player := &models.Player{
		DisplayName: name,
		DateOfBirth: time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC),
		ProfileURL:  profileURL,
	}
	require.NoError(t, db.Create(player).Error)
	return player
}

func TestSyncRunForAllPlayers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSyncService(db, &stubProvider{name: "stub", club: "FC Synced"})

	a := seedLinkedPlayer(t, db, "Niko Talent", "https://tm.example/niko-talent/profil/spieler/101")
	b := seedLinkedPlayer(t, db, "Milo Prospect", "https://tm.example/milo-prospect/profil/spieler/102")
	unlinked := seedPlayer(t, db, "Ohne Profil")

	count, err := svc.RunForAllPlayers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only players with a profile url are synced")

	for _, id := range []uint{a.ID, b.ID} {
		var player models.Player
		require.NoError(t, db.First(&player, id).Error)
		assert.Equal(t, "FC Synced", player.ClubName)
		assert.NotNil(t, player.LastSyncedAt)
	}

	var untouched models.Player
	require.NoError(t, db.First(&untouched, unlinked.ID).Error)
	assert.Nil(t, untouched.LastSyncedAt)
}

func TestSyncProviderFallback(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSyncService(db,
		&stubProvider{name: "broken", failErr: errors.New("scrape blocked")},
		&stubProvider{name: "working", club: "FC Fallback"},
	)
	player := seedLinkedPlayer(t, db, "Niko Talent", "https://tm.example/niko-talent/profil/spieler/101")

	require.NoError(t, svc.RunForPlayer(context.Background(), player.ID))

	var reloaded models.Player
	require.NoError(t, db.First(&reloaded, player.ID).Error)
	assert.Equal(t, "FC Fallback", reloaded.ClubName)
}

func TestSyncUpstreamFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSyncService(db, &stubProvider{name: "broken", failErr: errors.New("scrape blocked")})
	player := seedLinkedPlayer(t, db, "Niko Talent", "https://tm.example/niko-talent/profil/spieler/101")

	err := svc.RunForPlayer(context.Background(), player.ID)
	assert.ErrorIs(t, err, ErrUpstream)

	// Fehlgeschlagene Spieler zählen nicht als synchronisiert.
	count, err := svc.RunForAllPlayers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var reloaded models.Player
	require.NoError(t, db.First(&reloaded, player.ID).Error)
	assert.Nil(t, reloaded.LastSyncedAt)
}

func TestSyncRunForPlayerValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSyncService(db, &stubProvider{name: "stub", club: "FC Synced"})

	err := svc.RunForPlayer(context.Background(), 4711)
	assert.ErrorIs(t, err, ErrNotFound)

	player := seedPlayer(t, db, "Ohne Profil")
	err = svc.RunForPlayer(context.Background(), player.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

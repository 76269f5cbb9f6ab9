package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scout-hand/config"
	"scout-hand/models"
	"scout-hand/providers"
	"scout-hand/storage"
)

// httpClient wird für Foto-Downloads in diesem Service verwendet.
var httpClient = &http.Client{Timeout: 60 * time.Second}

// SyncService orchestriert den Abgleich verknüpfter Spieler mit den
// externen Datenquellen: Club, Marktwert und Foto auffrischen, Fotos in den
// eigenen Media-Bucket spiegeln.
type SyncService struct {
	Config    *config.Config
	DB        *gorm.DB
	S3Client  *s3.Client
	Logger    *zap.Logger
	Providers []providers.Provider
}

// NewSyncService erstellt eine neue Instanz des SyncService.
func NewSyncService(cfg *config.Config, db *gorm.DB, s3Client *s3.Client, logger *zap.Logger, provs []providers.Provider) *SyncService {
	return &SyncService{
		Config:    cfg,
		DB:        db,
		S3Client:  s3Client,
		Logger:    logger,
		Providers: provs,
	}
}

// RunForAllPlayers frischt alle Spieler mit hinterlegtem externen Profil
// auf und gibt die Anzahl erfolgreich aktualisierter Datensätze zurück.
func (f *SyncService) RunForAllPlayers(ctx context.Context) (int, error) {
	var players []models.Player
	if err := f.DB.Where("profile_url <> ''").Find(&players).Error; err != nil {
		f.Logger.Error("Spieler für Sync konnten nicht geladen werden", zap.Error(err))
		return 0, err
	}
	f.Logger.Info("Starte Player-Sync", zap.Int("players", len(players)))

	maxParallel := f.Config.SyncMaxParallel
	if maxParallel <= 0 {
		maxParallel = 5
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, maxParallel)
	synced := 0

	for i := range players {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(player *models.Player) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := f.syncPlayer(ctx, player); err != nil {
				f.Logger.Warn("Spieler-Sync fehlgeschlagen",
					zap.Uint("player_id", player.ID),
					zap.Error(err))
				return
			}
			mu.Lock()
			synced++
			mu.Unlock()
		}(&players[i])
	}

	wg.Wait()
	f.Logger.Info("Player-Sync abgeschlossen", zap.Int("synced", synced))
	return synced, nil
}

// RunForPlayer frischt einen einzelnen Spieler auf.
func (f *SyncService) RunForPlayer(ctx context.Context, playerID uint) error {
	var player models.Player
	if err := f.DB.First(&player, playerID).Error; err != nil {
		return fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}
	if player.ProfileURL == "" {
		return fmt.Errorf("%w: player %d has no external profile", ErrValidation, playerID)
	}
	return f.syncPlayer(ctx, &player)
}

// syncPlayer lässt den ersten Provider den Datensatz anreichern, spiegelt
// das Foto in den Media-Bucket und persistiert das Ergebnis.
func (f *SyncService) syncPlayer(ctx context.Context, player *models.Player) error {
	log := f.Logger.With(zap.Uint("player_id", player.ID), zap.String("name", player.DisplayName))

	var lastErr error
	enriched := false
	for _, provider := range f.Providers {
		if err := provider.Enrich(player); err != nil {
			log.Warn("Provider-Enrich fehlgeschlagen", zap.String("provider", provider.Name()), zap.Error(err))
			lastErr = err
			continue
		}
		enriched = true
		break
	}
	if !enriched {
		return fmt.Errorf("%w: %v", ErrUpstream, lastErr)
	}

	// Externes Foto in den eigenen Bucket spiegeln, damit die UI nicht vom
	// Quell-CDN abhängt.
	if player.PhotoURL != "" && !strings.HasPrefix(player.PhotoURL, f.Config.MediaS3URL) {
		if link, err := f.mirrorPhoto(ctx, player); err != nil {
			log.Warn("Foto-Spiegelung fehlgeschlagen", zap.Error(err))
		} else {
			player.PhotoURL = link
		}
	}

	now := time.Now()
	player.LastSyncedAt = &now
	if err := f.DB.Save(player).Error; err != nil {
		return err
	}
	log.Info("Spieler synchronisiert", zap.String("club", player.ClubName), zap.String("market_value", player.MarketValue))
	return nil
}

// mirrorPhoto lädt das Spielerfoto herunter und legt es im Media-Bucket ab.
func (f *SyncService) mirrorPhoto(ctx context.Context, player *models.Player) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, player.PhotoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("players/%d/photo.jpg", player.ID)
	return storage.UploadFile(f.S3Client, f.Config.MediaS3Bucket, key, data, f.Config)
}

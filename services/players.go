package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"scout-hand/models"
)

// Default- und Obergrenze für die Spieler-Suche.
const (
	defaultPlayerSearchLimit = 20
	maxPlayerSearchLimit     = 100
)

// PlayerService ist das lokale Spieler-Verzeichnis: Suche für den
// Link-Dialog, Batch-Auflösung für Listen und Anlage neuer Datensätze.
type PlayerService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewPlayerService erstellt eine neue Instanz des PlayerService.
func NewPlayerService(db *gorm.DB, logger *zap.Logger) *PlayerService {
	return &PlayerService{DB: db, Logger: logger}
}

// Search sucht Spieler per Teilstring im Anzeigenamen, case-insensitive.
// LOWER/LIKE statt ILIKE, damit die Abfrage auch auf dem SQLite-Testtreiber
// läuft.
func (s *PlayerService) Search(query string, limit int) ([]models.PlayerProjection, error) {
	if limit <= 0 {
		limit = defaultPlayerSearchLimit
	}
	if limit > maxPlayerSearchLimit {
		limit = maxPlayerSearchLimit
	}

	q := s.DB.Model(&models.Player{}).Order("display_name asc").Limit(limit)
	if needle := strings.TrimSpace(query); needle != "" {
		q = q.Where("LOWER(display_name) LIKE ?", "%"+strings.ToLower(needle)+"%")
	}

	var players []models.Player
	if err := q.Find(&players).Error; err != nil {
		s.Logger.Error("Spieler-Suche fehlgeschlagen", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	projections := make([]models.PlayerProjection, 0, len(players))
	for i := range players {
		projections = append(projections, players[i].Projection())
	}
	return projections, nil
}

// GetByIDs löst eine Liste von Spieler-IDs zu Projektionen auf. Unbekannte
// IDs fehlen einfach im Ergebnis.
func (s *PlayerService) GetByIDs(ids []uint) (map[uint]models.PlayerProjection, error) {
	result := make(map[uint]models.PlayerProjection, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var players []models.Player
	if err := s.DB.Where("id IN ?", ids).Find(&players).Error; err != nil {
		s.Logger.Error("Spieler-Batch-Abfrage fehlgeschlagen", zap.Error(err))
		return nil, err
	}
	for i := range players {
		result[players[i].ID] = players[i].Projection()
	}
	return result, nil
}

// Get lädt einen einzelnen Spieler.
func (s *PlayerService) Get(id uint) (*models.Player, error) {
	var player models.Player
	if err := s.DB.First(&player, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: player %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &player, nil
}

// Create legt einen neuen kanonischen Spieler an. Das Geburtsdatum ist ein
// hartes Pflichtfeld des Schemas.
func (s *PlayerService) Create(createdBy uint, in NewPlayerInput) (*models.Player, error) {
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, fmt.Errorf("%w: display_name is required", ErrValidation)
	}
	if in.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("%w: date_of_birth is required", ErrValidation)
	}

	player := &models.Player{
		DisplayName: strings.TrimSpace(in.DisplayName),
		DateOfBirth: in.DateOfBirth,
		Position:    in.Position,
		ClubName:    in.ClubName,
		ClubCountry: in.ClubCountry,
		ProfileURL:  in.ProfileURL,
		CreatedBy:   createdBy,
	}
	if err := s.DB.Create(player).Error; err != nil {
		s.Logger.Error("Spieler konnte nicht angelegt werden", zap.Error(err))
		return nil, err
	}
	s.Logger.Info("Spieler angelegt", zap.Uint("player_id", player.ID), zap.String("name", player.DisplayName))
	return player, nil
}

// ParseDateOfBirth akzeptiert die üblichen Datumsformate der Clients.
func ParseDateOfBirth(raw string) (time.Time, error) {
	layouts := []string{"2006-01-02", time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date_of_birth %q", ErrValidation, raw)
}

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

// ObservationService verwaltet die Beobachtungs-Sessions der Scouts.
type ObservationService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewObservationService erstellt eine neue Instanz des ObservationService.
func NewObservationService(db *gorm.DB, logger *zap.Logger) *ObservationService {
	return &ObservationService{DB: db, Logger: logger}
}

// ObservationInput sind die Felder einer neuen Beobachtung.
type ObservationInput struct {
	SessionRef   string    `json:"session_ref"`
	TeamName     string    `json:"team_name"`
	OpponentName string    `json:"opponent_name"`
	MatchAt      time.Time `json:"match_at"`
	Technique    int       `json:"technique"`
	Pace         int       `json:"pace"`
	Physique     int       `json:"physique"`
	GameSense    int       `json:"game_sense"`
	Notes        string    `json:"notes"`
}

// Create legt eine Beobachtungs-Session an.
func (s *ObservationService) Create(scout *models.Scout, in ObservationInput) (*models.Observation, error) {
	if strings.TrimSpace(in.SessionRef) == "" {
		return nil, fmt.Errorf("%w: session_ref is required", ErrValidation)
	}
	for _, rating := range []int{in.Technique, in.Pace, in.Physique, in.GameSense} {
		if rating < 0 || rating > 5 {
			return nil, fmt.Errorf("%w: ratings must be between 0 and 5", ErrValidation)
		}
	}

	obs := &models.Observation{
		ScoutID:      scout.ID,
		SessionRef:   strings.TrimSpace(in.SessionRef),
		TeamName:     strings.TrimSpace(in.TeamName),
		OpponentName: strings.TrimSpace(in.OpponentName),
		MatchAt:      in.MatchAt,
		Technique:    in.Technique,
		Pace:         in.Pace,
		Physique:     in.Physique,
		GameSense:    in.GameSense,
		Notes:        in.Notes,
	}
	if err := s.DB.Create(obs).Error; err != nil {
		s.Logger.Error("Beobachtung konnte nicht angelegt werden", zap.Error(err))
		return nil, err
	}
	return obs, nil
}

// GetOwned lädt eine Beobachtung und prüft den Besitzer. Der
// Sprachnotiz-Upload ruft das auf, bevor irgendetwas nach S3 geschrieben
// wird — ein fremder oder unbekannter Datensatz darf keinen Upload auslösen.
func (s *ObservationService) GetOwned(scout *models.Scout, id uint) (*models.Observation, error) {
	var obs models.Observation
	if err := s.DB.First(&obs, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: observation %d", ErrNotFound, id)
		}
		return nil, err
	}
	if obs.ScoutID != scout.ID {
		return nil, fmt.Errorf("%w: observation %d belongs to another scout", ErrForbidden, id)
	}
	return &obs, nil
}

// Update wendet eine partielle Änderung auf eine Beobachtung an; nur der
// besitzende Scout darf editieren. Updates laufen über eine Map, damit nur
// mitgeschickte Felder geschrieben werden.
func (s *ObservationService) Update(scout *models.Scout, id uint, updates map[string]interface{}) (*models.Observation, error) {
	obs, err := s.GetOwned(scout, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", ErrValidation)
	}
	if err := s.DB.Model(obs).Updates(updates).Error; err != nil {
		s.Logger.Error("Beobachtungs-Update fehlgeschlagen", zap.Uint("observation_id", id), zap.Error(err))
		return nil, err
	}
	return obs, nil
}

// ObservationQuery filtert die Beobachtungs-Liste.
type ObservationQuery struct {
	SessionRef string `json:"session_ref"`
	TeamName   string `json:"team_name"`
	Limit      int    `json:"limit"`
}

// Query liefert die Beobachtungen eines Scouts, neueste zuerst. Admins
// sehen alle Sessions.
func (s *ObservationService) Query(scout *models.Scout, q ObservationQuery) ([]models.Observation, error) {
	query := s.DB.Model(&models.Observation{})
	if !scout.IsAdmin() {
		query = query.Where("scout_id = ?", scout.ID)
	}
	if q.SessionRef != "" {
		query = query.Where("session_ref = ?", q.SessionRef)
	}
	if q.TeamName != "" {
		query = query.Where("LOWER(team_name) LIKE ?", "%"+strings.ToLower(q.TeamName)+"%")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var observations []models.Observation
	if err := query.Order("created_at desc").Find(&observations).Error; err != nil {
		return nil, err
	}
	return observations, nil
}

// AttachVoiceNote hinterlegt den S3-Link einer hochgeladenen Sprachnotiz.
func (s *ObservationService) AttachVoiceNote(scout *models.Scout, id uint, url string) (*models.Observation, error) {
	return s.Update(scout, id, map[string]interface{}{"voice_note_url": url})
}

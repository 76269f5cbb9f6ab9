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

// LeadService kapselt alle Operationen auf einzelnen Lead-Zeilen.
// Cluster-weite Operationen (Status, Link/Unlink) liegen im ClusterService.
type LeadService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewLeadService erstellt eine neue Instanz des LeadService.
func NewLeadService(db *gorm.DB, logger *zap.Logger) *LeadService {
	return &LeadService{DB: db, Logger: logger}
}

// LeadInput sind die vom Scout gelieferten Felder einer neuen Sichtung.
type LeadInput struct {
	TeamName     string     `json:"team_name"`
	OpponentName string     `json:"opponent_name"`
	MatchAt      time.Time  `json:"match_at"`
	JerseyNumber *int       `json:"jersey_number"`
	Notes        string     `json:"notes"`
	SessionRef   string     `json:"session_ref"`
}

// LeadPatch beschreibt eine partielle Änderung; nil-Felder bleiben unberührt.
type LeadPatch struct {
	TeamName     *string    `json:"team_name"`
	OpponentName *string    `json:"opponent_name"`
	MatchAt      *time.Time `json:"match_at"`
	JerseyNumber *int       `json:"jersey_number"`
	ClearJersey  bool       `json:"clear_jersey"`
	Notes        *string    `json:"notes"`
	SessionRef   *string    `json:"session_ref"`
}

// Create legt einen neuen Lead mit Status pending an. Die Signatur wird
// ausschließlich hier berechnet; ein vom Client mitgeschickter Wert wird
// ignoriert. Leads auf bereits aufgelösten Clustern starten ebenfalls als
// pending, die Lese-Seite entscheidet über den Aggregat-Status.
func (s *LeadService) Create(scout *models.Scout, in LeadInput) (*models.Lead, error) {
	if strings.TrimSpace(in.TeamName) == "" {
		return nil, fmt.Errorf("%w: team_name is required", ErrValidation)
	}
	if in.MatchAt.IsZero() {
		return nil, fmt.Errorf("%w: match_at is required", ErrValidation)
	}

	lead := &models.Lead{
		ScoutID:      scout.ID,
		TeamName:     strings.TrimSpace(in.TeamName),
		OpponentName: strings.TrimSpace(in.OpponentName),
		MatchAt:      in.MatchAt,
		JerseyNumber: in.JerseyNumber,
		Notes:        in.Notes,
		SessionRef:   in.SessionRef,
		DedupeSig:    ComputeSignature(in.TeamName, &in.MatchAt, in.JerseyNumber),
		Status:       models.StatusPending,
	}

	if err := s.DB.Create(lead).Error; err != nil {
		s.Logger.Error("Lead konnte nicht angelegt werden", zap.Error(err))
		return nil, err
	}
	s.Logger.Info("Lead angelegt",
		zap.Uint("lead_id", lead.ID),
		zap.Uint("scout_id", scout.ID),
		zap.String("dedupe_sig", lead.DedupeSig))
	return lead, nil
}

// Update wendet eine partielle Änderung auf einen Lead an. Nur der
// besitzende Scout darf editieren. Ändert sich ein signatur-relevantes Feld
// (Team, Anstoßzeit, Trikotnummer), wird die Signatur neu berechnet und der
// Lead wechselt damit still seinen Cluster. Auf einem verlinkten Lead sind
// signatur-relevante Änderungen gesperrt, bis der Cluster entlinkt ist —
// sonst würde ein Lead mit gesetzter Spieler-Referenz in einen fremden
// Cluster wandern.
func (s *LeadService) Update(scout *models.Scout, leadID uint, patch LeadPatch) (*models.Lead, error) {
	var lead models.Lead
	if err := s.DB.First(&lead, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %d", ErrNotFound, leadID)
		}
		return nil, err
	}
	if lead.ScoutID != scout.ID {
		return nil, fmt.Errorf("%w: lead %d belongs to another scout", ErrForbidden, leadID)
	}

	sigChange := patch.TeamName != nil || patch.MatchAt != nil ||
		patch.JerseyNumber != nil || patch.ClearJersey
	if sigChange && lead.Status == models.StatusLinked {
		return nil, fmt.Errorf("%w: cluster is linked, unlink before changing team, match time or jersey", ErrConflict)
	}

	if patch.TeamName != nil {
		if strings.TrimSpace(*patch.TeamName) == "" {
			return nil, fmt.Errorf("%w: team_name must not be empty", ErrValidation)
		}
		lead.TeamName = strings.TrimSpace(*patch.TeamName)
	}
	if patch.OpponentName != nil {
		lead.OpponentName = strings.TrimSpace(*patch.OpponentName)
	}
	if patch.MatchAt != nil {
		if patch.MatchAt.IsZero() {
			return nil, fmt.Errorf("%w: match_at must not be empty", ErrValidation)
		}
		lead.MatchAt = *patch.MatchAt
	}
	if patch.ClearJersey {
		lead.JerseyNumber = nil
	} else if patch.JerseyNumber != nil {
		lead.JerseyNumber = patch.JerseyNumber
	}
	if patch.Notes != nil {
		lead.Notes = *patch.Notes
	}
	if patch.SessionRef != nil {
		lead.SessionRef = *patch.SessionRef
	}

	if sigChange {
		lead.DedupeSig = ComputeSignature(lead.TeamName, &lead.MatchAt, lead.JerseyNumber)
	}

	if err := s.DB.Save(&lead).Error; err != nil {
		s.Logger.Error("Lead-Update fehlgeschlagen", zap.Uint("lead_id", leadID), zap.Error(err))
		return nil, err
	}
	s.Logger.Info("Lead aktualisiert",
		zap.Uint("lead_id", lead.ID),
		zap.Bool("signature_changed", sigChange),
		zap.String("dedupe_sig", lead.DedupeSig))
	return &lead, nil
}

// ListOwn gibt alle Leads eines Scouts zurück, neueste zuerst.
func (s *LeadService) ListOwn(scoutID uint) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.Where("scout_id = ?", scoutID).Order("created_at desc").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

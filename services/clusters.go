package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"scout-hand/models"
)

// ClusterService implementiert die Cluster-Sicht und die cluster-weiten
// Mutationen. Cluster existieren nicht als Tabelle: jede Liste gruppiert die
// aktuellen Lead-Zeilen nach DedupeSig neu. Alle Bulk-Mutationen laufen als
// ein einzelnes UPDATE über die Signatur innerhalb einer Transaktion, damit
// ein Cluster nie teilweise verlinkt oder teilweise abgelehnt zurückbleibt.
type ClusterService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewClusterService erstellt eine neue Instanz des ClusterService.
func NewClusterService(db *gorm.DB, logger *zap.Logger) *ClusterService {
	return &ClusterService{DB: db, Logger: logger}
}

// ClusterFilter steuert die Cluster-Liste. ScoutID nil bedeutet die globale
// Admin-Sicht; mit ScoutID werden nur Cluster geliefert, an denen der Scout
// beteiligt ist — die Zähler laufen trotzdem über alle Leads der Signatur.
type ClusterFilter struct {
	ScoutID *uint
	Status  string
	Search  string
}

// List gruppiert alle Leads mit Signatur zu Cluster-Zeilen, sortiert nach
// LastSeenAt absteigend.
func (s *ClusterService) List(filter ClusterFilter) ([]models.ClusterRow, error) {
	var leads []models.Lead
	if err := s.DB.Where("dedupe_sig <> ''").Find(&leads).Error; err != nil {
		s.Logger.Error("Leads für Cluster-Liste konnten nicht geladen werden", zap.Error(err))
		return nil, err
	}

	groups := make(map[string][]*models.Lead)
	for i := range leads {
		groups[leads[i].DedupeSig] = append(groups[leads[i].DedupeSig], &leads[i])
	}

	rows := make([]models.ClusterRow, 0, len(groups))
	for sig, members := range groups {
		row := buildClusterRow(sig, members)

		if filter.ScoutID != nil {
			own := ownLeadOf(members, *filter.ScoutID)
			if own == nil {
				continue
			}
			row.OwnLeadID = &own.ID
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !rowMatchesSearch(&row, filter.Search) {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].LastSeenAt.Equal(rows[j].LastSeenAt) {
			return rows[i].LastSeenAt.After(rows[j].LastSeenAt)
		}
		return rows[i].Signature < rows[j].Signature
	})
	return rows, nil
}

// Members liefert alle Leads einer Signatur für die Drill-Down-Ansicht,
// älteste zuerst.
func (s *ClusterService) Members(signature string) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.Where("dedupe_sig = ?", signature).Order("created_at asc, id asc").Find(&leads).Error; err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, fmt.Errorf("%w: cluster %q", ErrNotFound, signature)
	}
	return leads, nil
}

// SetStatus setzt den Status aller Leads einer Signatur auf pending oder
// rejected. linked ist hier bewusst nicht erlaubt — Verlinken braucht eine
// Spieler-Referenz und läuft über Link. Ein verlinkter Cluster muss zuerst
// entlinkt werden, rejected↔linked gibt es nicht direkt.
func (s *ClusterService) SetStatus(signature, status string) error {
	if status == models.StatusLinked {
		return fmt.Errorf("%w: linking requires a player, use the link operation", ErrValidation)
	}
	if status != models.StatusPending && status != models.StatusRejected {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		members, err := clusterMembersTx(tx, signature)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.Status == models.StatusLinked {
				return fmt.Errorf("%w: cluster is linked, unlink first", ErrInvalidTransition)
			}
		}
		return tx.Model(&models.Lead{}).
			Where("dedupe_sig = ?", signature).
			Update("status", status).Error
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Cluster-Status gesetzt", zap.String("signature", signature), zap.String("status", status))
	return nil
}

// Link verknüpft alle Leads einer Signatur mit einem kanonischen Spieler und
// setzt sie auf linked. Idempotent für denselben Spieler; ein bereits mit
// einem anderen Spieler verlinkter Cluster muss zuerst entlinkt werden.
func (s *ClusterService) Link(signature string, playerID uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return linkClusterTx(tx, signature, playerID)
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Cluster verlinkt", zap.String("signature", signature), zap.Uint("player_id", playerID))
	return nil
}

// Unlink löst die Spieler-Verknüpfung aller Leads einer Signatur und setzt
// sie zurück auf pending. Auf einem unverlinkten Cluster ein No-Op.
func (s *ClusterService) Unlink(signature string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := clusterMembersTx(tx, signature); err != nil {
			return err
		}
		return tx.Model(&models.Lead{}).
			Where("dedupe_sig = ?", signature).
			Updates(map[string]interface{}{
				"player_id": nil,
				"status":    models.StatusPending,
			}).Error
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Cluster entlinkt", zap.String("signature", signature))
	return nil
}

// NewPlayerInput sind die Felder für einen im Link-Schritt neu angelegten
// Spieler. DateOfBirth ist ein hartes Pflichtfeld des Spieler-Schemas.
type NewPlayerInput struct {
	DisplayName string    `json:"display_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Position    string    `json:"position"`
	ClubName    string    `json:"club_name"`
	ClubCountry string    `json:"club_country"`
	ProfileURL  string    `json:"external_profile_url"`
}

// CreateAndLink legt einen neuen Spieler an und verlinkt den Cluster in
// einer einzigen Transaktion. Schlägt der Link-Schritt fehl, wird auch die
// Spieler-Anlage zurückgerollt — es bleibt nie ein unverlinkter
// Spieler-Datensatz übrig.
func (s *ClusterService) CreateAndLink(signature string, createdBy uint, in NewPlayerInput) (*models.Player, error) {
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

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Cluster zuerst prüfen, damit kein Spieler für eine unbekannte
		// Signatur entsteht.
		if _, err := clusterMembersTx(tx, signature); err != nil {
			return err
		}
		if err := tx.Create(player).Error; err != nil {
			return err
		}
		return linkClusterTx(tx, signature, player.ID)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Spieler angelegt und Cluster verlinkt",
		zap.String("signature", signature),
		zap.Uint("player_id", player.ID))
	return player, nil
}

// clusterMembersTx lädt die Mitglieder einer Signatur innerhalb einer
// Transaktion. Eine leere Signatur oder ein leerer Cluster ist ein NotFound.
func clusterMembersTx(tx *gorm.DB, signature string) ([]models.Lead, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: empty signature", ErrValidation)
	}
	var members []models.Lead
	if err := tx.Where("dedupe_sig = ?", signature).Find(&members).Error; err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: cluster %q", ErrNotFound, signature)
	}
	return members, nil
}

// linkClusterTx enthält die eigentliche Link-Logik und wird von Link und
// CreateAndLink geteilt.
func linkClusterTx(tx *gorm.DB, signature string, playerID uint) error {
	var player models.Player
	if err := tx.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: player %d", ErrNotFound, playerID)
		}
		return err
	}

	members, err := clusterMembersTx(tx, signature)
	if err != nil {
		return err
	}

	linked := false
	rejected := false
	for _, m := range members {
		switch m.Status {
		case models.StatusLinked:
			linked = true
			if m.PlayerID != nil && *m.PlayerID != playerID {
				return fmt.Errorf("%w: cluster already linked to player %d", ErrConflict, *m.PlayerID)
			}
		case models.StatusRejected:
			rejected = true
		}
	}
	// rejected → linked gibt es nicht direkt; erst zurück auf pending.
	if !linked && rejected {
		return fmt.Errorf("%w: cluster is rejected, set it to pending first", ErrInvalidTransition)
	}

	return tx.Model(&models.Lead{}).
		Where("dedupe_sig = ?", signature).
		Updates(map[string]interface{}{
			"player_id": playerID,
			"status":    models.StatusLinked,
		}).Error
}

// buildClusterRow aggregiert die Mitglieder einer Signatur zu einer Zeile.
func buildClusterRow(signature string, members []*models.Lead) models.ClusterRow {
	rep := members[0]
	first := members[0].CreatedAt
	last := members[0].CreatedAt
	scouts := make(map[uint]struct{}, len(members))

	linked := false
	rejected := false
	var playerID *uint

	for _, m := range members {
		scouts[m.ScoutID] = struct{}{}
		if m.CreatedAt.Before(first) {
			first = m.CreatedAt
		}
		if m.CreatedAt.After(last) {
			last = m.CreatedAt
		}
		// Repräsentant: zuletzt angelegtes Mitglied, ID als Tie-Break.
		if m.CreatedAt.After(rep.CreatedAt) || (m.CreatedAt.Equal(rep.CreatedAt) && m.ID > rep.ID) {
			rep = m
		}
		switch m.Status {
		case models.StatusLinked:
			linked = true
			if m.PlayerID != nil {
				playerID = m.PlayerID
			}
		case models.StatusRejected:
			rejected = true
		}
		if playerID == nil && m.PlayerID != nil {
			playerID = m.PlayerID
		}
	}

	// Lese-Regel: linked vor rejected vor pending.
	status := models.StatusPending
	if linked {
		status = models.StatusLinked
	} else if rejected {
		status = models.StatusRejected
	}

	return models.ClusterRow{
		Signature:            signature,
		LeadsCount:           len(members),
		ScoutsCount:          len(scouts),
		FirstSeenAt:          first,
		LastSeenAt:           last,
		RepresentativeLeadID: rep.ID,
		TeamName:             rep.TeamName,
		OpponentName:         rep.OpponentName,
		MatchAt:              rep.MatchAt,
		JerseyNumber:         rep.JerseyNumber,
		Status:               status,
		PlayerID:             playerID,
	}
}

// ownLeadOf findet den neuesten Lead eines Scouts im Cluster.
func ownLeadOf(members []*models.Lead, scoutID uint) *models.Lead {
	var own *models.Lead
	for _, m := range members {
		if m.ScoutID != scoutID {
			continue
		}
		if own == nil || m.CreatedAt.After(own.CreatedAt) {
			own = m
		}
	}
	return own
}

// rowMatchesSearch prüft den Freitext-Filter gegen Team- und Gegnernamen.
func rowMatchesSearch(row *models.ClusterRow, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.TeamName), needle) ||
		strings.Contains(strings.ToLower(row.OpponentName), needle)
}

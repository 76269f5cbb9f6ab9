package models

import (
	"time"
)

// ClusterRow ist die abgeleitete Listen-Zeile für einen Cluster. Cluster
// werden nicht gespeichert, sondern bei jedem Lesen aus den aktuellen
// Lead-Zeilen gruppiert (eine Zeile pro DedupeSig).
type ClusterRow struct {
	Signature string `json:"signature"`

	LeadsCount  int `json:"leads_count"`
	ScoutsCount int `json:"scouts_count"`

	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`

	// Repräsentative Match-Daten; per Signatur-Konstruktion über alle
	// Mitglieder identisch. Tie-Break bei nachträglich verbogenen Feldern:
	// das zuletzt angelegte Mitglied gewinnt.
	RepresentativeLeadID uint      `json:"representative_lead_id"`
	TeamName             string    `json:"team_name"`
	OpponentName         string    `json:"opponent_name,omitempty"`
	MatchAt              time.Time `json:"match_at"`
	JerseyNumber         *int      `json:"jersey_number,omitempty"`

	// Aggregat-Status: linked vor rejected vor pending.
	Status   string `json:"status"`
	PlayerID *uint  `json:"player_id,omitempty"`

	// Nur in der Scout-Ansicht gesetzt: eigene Lead-ID für Edit-Aktionen.
	OwnLeadID *uint `json:"own_lead_id,omitempty"`
}

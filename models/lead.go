package models

import (
	"time"
)

// Status-Werte eines Leads bzw. des abgeleiteten Clusters.
const (
	StatusPending  = "pending"
	StatusLinked   = "linked"
	StatusRejected = "rejected"
)

// Lead repräsentiert die Sichtung eines unbekannten Spielers durch einen Scout.
// Mehrere Leads mit derselben DedupeSig bilden zusammen einen Cluster.
type Lead struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ScoutID uint `json:"scout_id" gorm:"index;not null"`

	TeamName     string    `json:"team_name" gorm:"not null"`
	OpponentName string    `json:"opponent_name,omitempty"`
	MatchAt      time.Time `json:"match_at" gorm:"not null"`
	JerseyNumber *int      `json:"jersey_number,omitempty"`
	Notes        string    `json:"notes,omitempty" gorm:"type:text"`

	// Abgeleiteter Cluster-Schlüssel: team|minuten-bucket|trikotnummer.
	// Wird ausschließlich serverseitig berechnet, nie vom Client übernommen.
	DedupeSig string `json:"dedupe_sig" gorm:"index"`

	// Invariante: Status == linked genau dann, wenn PlayerID gesetzt ist.
	PlayerID *uint  `json:"player_id,omitempty" gorm:"index"`
	Status   string `json:"status" gorm:"index;not null;default:'pending'"`

	// Optionale Verknüpfung zu einer Beobachtungs-Session.
	SessionRef string `json:"session_ref,omitempty" gorm:"index"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Lead) TableName() string {
	return "leads"
}

package models

import (
	"time"
)

// Observation ist eine strukturierte Beobachtung eines Scouts während eines
// Spiels. Leads verweisen über SessionRef auf die zugehörige Session.
// Sprachnotizen werden als Audio-Datei in S3 abgelegt; Aufnahme und
// Transkription passieren außerhalb dieses Backends.
type Observation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ScoutID    uint   `json:"scout_id" gorm:"index;not null"`
	SessionRef string `json:"session_ref" gorm:"index;not null"`

	TeamName     string    `json:"team_name,omitempty"`
	OpponentName string    `json:"opponent_name,omitempty"`
	MatchAt      time.Time `json:"match_at"`

	// Strukturierte Bewertung (1-5, 0 = nicht bewertet).
	Technique int `json:"technique,omitempty"`
	Pace      int `json:"pace,omitempty"`
	Physique  int `json:"physique,omitempty"`
	GameSense int `json:"game_sense,omitempty"`

	Notes        string `json:"notes,omitempty" gorm:"type:text"`
	VoiceNoteURL string `json:"voice_note_url,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Observation) TableName() string {
	return "observations"
}

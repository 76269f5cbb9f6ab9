package models

import (
	"time"
)

// Player ist der kanonische Spieler-Datensatz, mit dem ein Cluster
// verknüpft werden kann.
type Player struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DisplayName string    `json:"display_name" gorm:"index;not null"`
	DateOfBirth time.Time `json:"date_of_birth" gorm:"not null"` // Pflichtfeld bei Anlage
	Position    string    `json:"position,omitempty"`
	ClubName    string    `json:"club_name,omitempty" gorm:"index"`
	ClubCountry string    `json:"club_country,omitempty"`

	PhotoURL string `json:"photo_url,omitempty"`
	// Externes Transfermarkt-Profil, Quelle für den Sync.
	ProfileURL  string `json:"external_profile_url,omitempty"`
	MarketValue string `json:"market_value,omitempty"`

	// Scout, der den Datensatz angelegt hat.
	CreatedBy uint `json:"created_by" gorm:"index"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Player) TableName() string {
	return "players"
}

// PlayerProjection ist die kompakte Darstellung für Link-Ansichten
// und die Batch-Auflösung verknüpfter Spieler.
type PlayerProjection struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	Position    string `json:"position,omitempty"`
	ClubName    string `json:"club_name,omitempty"`
	ClubCountry string `json:"club_country,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	ProfileURL  string `json:"external_profile_url,omitempty"`
}

// Projection reduziert einen Player auf die Anzeige-Felder.
func (p *Player) Projection() PlayerProjection {
	return PlayerProjection{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Position:    p.Position,
		ClubName:    p.ClubName,
		ClubCountry: p.ClubCountry,
		PhotoURL:    p.PhotoURL,
		ProfileURL:  p.ProfileURL,
	}
}

package models

import (
	"time"
)

// Rollen eines Scout-Accounts.
const (
	RoleScout = "scout"
	RoleAdmin = "admin"
)

// Scout ist ein Benutzer-Account. Scouts legen Leads und Beobachtungen an,
// Admins verwalten Scouts, Spieler und die Cluster-Auflösung.
type Scout struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"uniqueIndex;not null"`

	// API-Token für den X-API-KEY Header.
	AccessToken string `json:"-" gorm:"uniqueIndex;not null"`

	Role   string `json:"role" gorm:"not null;default:'scout'"`
	Active bool   `json:"active" gorm:"not null;default:true"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Scout) TableName() string {
	return "scouts"
}

// IsAdmin meldet, ob der Scout administrative Operationen ausführen darf.
func (s *Scout) IsAdmin() bool {
	return s.Role == RoleAdmin
}

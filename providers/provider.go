package providers

import "scout-hand/models"

// Provider ist das Interface, das jede externe Spieler-Datenquelle
// (z.B. Transfermarkt) implementieren muss.
type Provider interface {
	// Search sucht Spieler per Name und gibt standardisierte Player-Modelle
	// zurück (ohne sie zu speichern).
	Search(name string) ([]*models.Player, error)

	// Enrich frischt Club, Marktwert und Foto eines bereits verknüpften
	// Spielers über dessen externes Profil auf.
	Enrich(player *models.Player) error

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "transfermarkt").
	Name() string
}

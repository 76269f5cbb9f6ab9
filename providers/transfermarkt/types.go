package transfermarkt

import "time"

// SearchResponse ist die Top-Level-Struktur der Quicksearch-API-Antwort.
type SearchResponse struct {
	Players []PlayerResult `json:"players"`
}

// PlayerResult repräsentiert einen einzelnen Treffer der Quicksearch.
type PlayerResult struct {
	ID          string `json:"id"`
	PlayerName  string `json:"playerName"`
	Club        string `json:"club"`
	ClubCountry string `json:"clubCountry"`
	Position    string `json:"mainPosition"`
	DateOfBirth string `json:"dateOfBirth"`
	MarketValue string `json:"marketValue"`
	PlayerImage string `json:"playerImage"`
	ProfilePath string `json:"profilePath"`
}

// ProfileResponse ist die Antwort des Profil-Endpunkts für einen Spieler.
type ProfileResponse struct {
	ID          string `json:"id"`
	PlayerName  string `json:"playerName"`
	Club        string `json:"club"`
	ClubCountry string `json:"clubCountry"`
	Position    string `json:"mainPosition"`
	MarketValue string `json:"marketValue"`
	PlayerImage string `json:"playerImage"`
}

// parseBirthDate parst die von der API gelieferten Geburtsdaten.
func parseBirthDate(dateStr string) *time.Time {
	layouts := []string{"2006-01-02", "Jan 2, 2006"}
	for _, layout := range layouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return &t
		}
	}
	return nil
}

package transfermarkt

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"scout-hand/config"
	"scout-hand/models"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Fetcher implementiert das Provider-Interface für Transfermarkt.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Transfermarkt-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "transfermarkt"
}

// Search sucht Spieler über die Quicksearch-API.
func (f *Fetcher) Search(name string) ([]*models.Player, error) {
	log := f.Logger.With(zap.String("name", name))
	log.Info("Starte Transfermarkt-Quicksearch.")

	searchURL := fmt.Sprintf("%s/api/quicksearch/players?query=%s",
		f.Config.TransfermarktBaseURL, url.QueryEscape(name))

	var searchResponse SearchResponse
	if err := f.getJSON(searchURL, &searchResponse); err != nil {
		return nil, err
	}

	var players []*models.Player
	for i := range searchResponse.Players {
		players = append(players, f.mapResultToModel(&searchResponse.Players[i]))
	}

	log.Info("Transfermarkt-Quicksearch abgeschlossen", zap.Int("found_players", len(players)))
	return players, nil
}

// Enrich frischt einen bereits verknüpften Spieler über den Profil-Endpunkt
// auf. Die Spieler-ID wird aus der hinterlegten Profil-URL extrahiert.
func (f *Fetcher) Enrich(player *models.Player) error {
	id := extractPlayerID(player.ProfileURL)
	if id == "" {
		return fmt.Errorf("no transfermarkt id in profile url %q", player.ProfileURL)
	}

	profileURL := fmt.Sprintf("%s/api/players/%s/profile", f.Config.TransfermarktBaseURL, id)
	var profile ProfileResponse
	if err := f.getJSON(profileURL, &profile); err != nil {
		return err
	}

	if profile.Club != "" {
		player.ClubName = profile.Club
	}
	if profile.ClubCountry != "" {
		player.ClubCountry = profile.ClubCountry
	}
	if profile.Position != "" {
		player.Position = profile.Position
	}
	if profile.MarketValue != "" {
		player.MarketValue = profile.MarketValue
	}
	if profile.PlayerImage != "" {
		player.PhotoURL = profile.PlayerImage
	}
	return nil
}

// getJSON ruft eine API-URL mit dem konfigurierten User-Agent ab und
// decodiert die JSON-Antwort.
func (f *Fetcher) getJSON(rawURL string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", f.Config.TransfermarktUserAgent)
	req.Header.Set("Accept", "application/json")

	f.Logger.Debug("Rufe Transfermarkt-API auf", zap.String("url", rawURL))
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transfermarkt request failed with status: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// mapResultToModel konvertiert einen Quicksearch-Treffer in unser internes
// Player-Modell. Der Datensatz wird nicht gespeichert, sondern dem Admin als
// Kandidat angeboten.
func (f *Fetcher) mapResultToModel(result *PlayerResult) *models.Player {
	player := &models.Player{
		DisplayName: result.PlayerName,
		Position:    result.Position,
		ClubName:    result.Club,
		ClubCountry: result.ClubCountry,
		MarketValue: result.MarketValue,
		PhotoURL:    result.PlayerImage,
	}
	if result.ProfilePath != "" {
		player.ProfileURL = f.Config.TransfermarktBaseURL + result.ProfilePath
	} else if result.ID != "" {
		player.ProfileURL = fmt.Sprintf("%s/spieler/%s", f.Config.TransfermarktBaseURL, result.ID)
	}
	if dob := parseBirthDate(result.DateOfBirth); dob != nil {
		player.DateOfBirth = *dob
	}
	return player
}

// extractPlayerID holt die numerische Spieler-ID aus einer Profil-URL,
// z.B. ".../erling-haaland/profil/spieler/418560" → "418560".
func extractPlayerID(profileURL string) string {
	trimmed := strings.TrimRight(profileURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	id := trimmed[idx+1:]
	for _, r := range id {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return id
}

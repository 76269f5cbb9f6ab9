package transfermarkt

import (
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scout-hand/config"
	"scout-hand/models"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(&config.Config{
		TransfermarktBaseURL:   "https://tm.example",
		TransfermarktUserAgent: "scout-hand-test/1.0",
	}, zap.NewNop())
}

func TestSearch(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://tm.example/api/quicksearch/players",
		httpmock.NewStringResponder(200, `{
			"players": [
				{
					"id": "418560",
					"playerName": "Erling Haaland",
					"club": "Manchester City",
					"clubCountry": "England",
					"mainPosition": "Centre-Forward",
					"dateOfBirth": "2000-07-21",
					"marketValue": "€180.00m",
					"playerImage": "https://img.example/haaland.jpg",
					"profilePath": "/erling-haaland/profil/spieler/418560"
				}
			]
		}`))

	fetcher := newTestFetcher()
	players, err := fetcher.Search("haaland")
	require.NoError(t, err)
	require.Len(t, players, 1)

	player := players[0]
	assert.Equal(t, "Erling Haaland", player.DisplayName)
	assert.Equal(t, "Manchester City", player.ClubName)
	assert.Equal(t, "Centre-Forward", player.Position)
	assert.Equal(t, "https://tm.example/erling-haaland/profil/spieler/418560", player.ProfileURL)
	assert.Equal(t, 2000, player.DateOfBirth.Year())
}

func TestSearchUpstreamError(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://tm.example/api/quicksearch/players",
		httpmock.NewStringResponder(503, "unavailable"))

	fetcher := newTestFetcher()
	_, err := fetcher.Search("haaland")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestEnrich(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://tm.example/api/players/418560/profile",
		httpmock.NewStringResponder(200, `{
			"id": "418560",
			"playerName": "Erling Haaland",
			"club": "Manchester City",
			"clubCountry": "England",
			"mainPosition": "Centre-Forward",
			"marketValue": "€180.00m",
			"playerImage": "https://img.example/haaland.jpg"
		}`))

	fetcher := newTestFetcher()
	player := &models.Player{
		DisplayName: "Erling Haaland",
		ProfileURL:  "https://tm.example/erling-haaland/profil/spieler/418560",
	}
	require.NoError(t, fetcher.Enrich(player))
	assert.Equal(t, "Manchester City", player.ClubName)
	assert.Equal(t, "€180.00m", player.MarketValue)
	assert.Equal(t, "https://img.example/haaland.jpg", player.PhotoURL)
}

func TestEnrichWithoutProfileID(t *testing.T) {
	fetcher := newTestFetcher()
	err := fetcher.Enrich(&models.Player{ProfileURL: "https://tm.example/not-a-profile"})
	require.Error(t, err)
}

func TestExtractPlayerID(t *testing.T) {
	assert.Equal(t, "418560", extractPlayerID("https://tm.example/erling-haaland/profil/spieler/418560"))
	assert.Equal(t, "418560", extractPlayerID("https://tm.example/erling-haaland/profil/spieler/418560/"))
	assert.Equal(t, "", extractPlayerID("https://tm.example/not-a-profile"))
	assert.Equal(t, "", extractPlayerID(""))
}

func TestParseBirthDate(t *testing.T) {
	dob := parseBirthDate("2000-07-21")
	require.NotNil(t, dob)
	assert.Equal(t, 2000, dob.Year())

	dob = parseBirthDate("Jul 21, 2000")
	require.NotNil(t, dob)
	assert.Equal(t, 2000, dob.Year())

	assert.Nil(t, parseBirthDate("21.07.2000"))
}

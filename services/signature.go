package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sigDelimiter trennt die drei Teile des Dedupe-Schlüssels.
const sigDelimiter = "|"

// normTeamName normalisiert einen Teamnamen für den Dedupe-Schlüssel:
// Whitespace trimmen, alles klein schreiben.
func normTeamName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// minuteBucket teilt einen Zeitpunkt einem 60-Sekunden-Fenster zu. Damit
// landen Sichtungen mit leicht abweichender Anstoßzeit (19:03 vs. 19:03:45)
// im selben Cluster, verschiedene Spiele aber nicht.
func minuteBucket(t time.Time) int64 {
	return t.Unix() / 60
}

// ComputeSignature leitet den Dedupe-Schlüssel eines Leads ab:
// "teamname|minuten-bucket|trikotnummer", z.B. "arsenal u21|28765432|10".
// Fehlt Teamname oder Anstoßzeit, gibt es keinen Schlüssel und der Lead
// wird mit keinem anderen geclustert. Eine fehlende Trikotnummer ergibt
// einen leeren dritten Teil und damit einen gröberen, aber gültigen
// Schlüssel. Gegner und Freitext fließen bewusst nicht ein.
func ComputeSignature(teamName string, matchAt *time.Time, jerseyNumber *int) string {
	team := normTeamName(teamName)
	if team == "" || matchAt == nil || matchAt.IsZero() {
		return ""
	}
	jersey := ""
	if jerseyNumber != nil {
		jersey = strconv.Itoa(*jerseyNumber)
	}
	return fmt.Sprintf("%s%s%d%s%s", team, sigDelimiter, minuteBucket(*matchAt), sigDelimiter, jersey)
}

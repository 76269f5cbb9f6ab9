package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeSignature(t *testing.T) {
	kickoff := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

	t.Run("Deterministic", func(t *testing.T) {
		a := ComputeSignature("Arsenal U21", timePtr(kickoff), intPtr(10))
		b := ComputeSignature("Arsenal U21", timePtr(kickoff), intPtr(10))
		assert.Equal(t, a, b)
		assert.NotEmpty(t, a)
	})

	t.Run("NormalizesCaseAndWhitespace", func(t *testing.T) {
		a := ComputeSignature("Arsenal U21", timePtr(kickoff), intPtr(10))
		b := ComputeSignature("  arsenal u21  ", timePtr(kickoff), intPtr(10))
		assert.Equal(t, a, b)
	})

	t.Run("Format", func(t *testing.T) {
		sig := ComputeSignature("Blue FC", timePtr(kickoff), intPtr(9))
		expectedBucket := kickoff.Unix() / 60
		assert.Equal(t, "blue fc|"+formatInt64(expectedBucket)+"|9", sig)
	})

	t.Run("SameMinuteBucketMerges", func(t *testing.T) {
		early := time.Date(2024, 5, 1, 19, 3, 5, 0, time.UTC)
		late := time.Date(2024, 5, 1, 19, 3, 45, 0, time.UTC)
		assert.Equal(t,
			ComputeSignature("Blue FC", timePtr(early), intPtr(9)),
			ComputeSignature("Blue FC", timePtr(late), intPtr(9)))
	})

	t.Run("AdjacentMinuteBucketsSeparate", func(t *testing.T) {
		lastSecond := time.Date(2024, 5, 1, 19, 3, 59, 0, time.UTC)
		nextSecond := time.Date(2024, 5, 1, 19, 4, 0, 0, time.UTC)
		assert.NotEqual(t,
			ComputeSignature("Blue FC", timePtr(lastSecond), intPtr(9)),
			ComputeSignature("Blue FC", timePtr(nextSecond), intPtr(9)))
	})

	t.Run("JerseyDistinguishesPlayers", func(t *testing.T) {
		assert.NotEqual(t,
			ComputeSignature("Blue FC", timePtr(kickoff), intPtr(9)),
			ComputeSignature("Blue FC", timePtr(kickoff), intPtr(10)))
	})

	t.Run("MissingJerseyIsValidLooserKey", func(t *testing.T) {
		sig := ComputeSignature("Blue FC", timePtr(kickoff), nil)
		assert.NotEmpty(t, sig)
		assert.Equal(t, "blue fc|"+formatInt64(kickoff.Unix()/60)+"|", sig)
		// Ein Lead ohne Trikotnummer clustert nicht mit einem nummerierten.
		assert.NotEqual(t, ComputeSignature("Blue FC", timePtr(kickoff), intPtr(9)), sig)
	})

	t.Run("MissingTeamYieldsNoSignature", func(t *testing.T) {
		assert.Empty(t, ComputeSignature("", timePtr(kickoff), intPtr(9)))
		assert.Empty(t, ComputeSignature("   ", timePtr(kickoff), intPtr(9)))
	})

	t.Run("MissingKickoffYieldsNoSignature", func(t *testing.T) {
		assert.Empty(t, ComputeSignature("Blue FC", nil, intPtr(9)))
		assert.Empty(t, ComputeSignature("Blue FC", timePtr(time.Time{}), intPtr(9)))
	})

	t.Run("TimezonesNormalizeToSameInstant", func(t *testing.T) {
		cet := time.FixedZone("CET", 60*60)
		local := time.Date(2024, 5, 1, 20, 0, 30, 0, cet) // == 19:00:30 UTC
		utc := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)
		assert.Equal(t,
			ComputeSignature("Blue FC", timePtr(utc), intPtr(9)),
			ComputeSignature("Blue FC", timePtr(local), intPtr(9)))
	})
}

// formatInt64 hält die Erwartungswerte in den Tests lesbar.
func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

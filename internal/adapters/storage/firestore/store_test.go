package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

func TestDocRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	transcript := domain.Transcript{
		domain.SystemTurn("seed"),
		{Role: domain.RoleUser, Content: "something for a wedding"},
	}

	doc := toDoc(transcript, now, time.Hour)
	assert.Equal(t, now.Add(time.Hour), doc.ExpiresAt)

	got, ok := fromDoc(doc, now.Add(30*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, transcript, got)
}

func TestDocExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	doc := toDoc(domain.Transcript{domain.SystemTurn("seed")}, now, time.Hour)

	_, ok := fromDoc(doc, now.Add(time.Hour))
	assert.False(t, ok)
}

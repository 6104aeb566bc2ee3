package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

func userTurns(contents ...string) domain.Transcript {
	out := domain.Transcript{domain.SystemTurn("seed")}
	for _, c := range contents {
		out = append(out, domain.Turn{Role: domain.RoleUser, Content: c})
	}
	return out
}

func TestMockLLMAsksThenSearches(t *testing.T) {
	m := NewMockLLM()
	ctx := context.Background()

	reply, err := m.Complete(ctx, domain.CompletionRequest{Turns: userTurns("a jacket")})
	require.NoError(t, err)
	assert.Equal(t, "What colour are you leaning towards?", reply)

	reply, err = m.Complete(ctx, domain.CompletionRequest{Turns: userTurns("a jacket", "navy", "under 100", "office")})
	require.NoError(t, err)
	assert.Contains(t, reply, `search_string="a jacket navy under 100 office"`)
}

func TestMockLLMNoPreference(t *testing.T) {
	reply, err := NewMockLLM().Complete(context.Background(), domain.CompletionRequest{Turns: userTurns("shoes", "no preference")})
	require.NoError(t, err)
	assert.Contains(t, reply, `search_string="shoes"`)
}

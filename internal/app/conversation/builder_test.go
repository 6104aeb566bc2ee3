package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

func TestRenderProductsNumbersFromOne(t *testing.T) {
	out := RenderProducts([]domain.Product{
		{Name: "Denim jacket", Price: 89.99, Color: "blue"},
		{Name: "Sneakers", Price: 120, Color: "white"},
	})

	assert.Equal(t,
		"Product 1: Name: Denim jacket, Price: 89.99, Color: blue\n"+
			"Product 2: Name: Sneakers, Price: 120, Color: white\n",
		out)
}

func TestRenderProductsPreservesOrder(t *testing.T) {
	products := make([]domain.Product, 0, 12)
	for _, name := range strings.Split("a b c d e f g h i j k l", " ") {
		products = append(products, domain.Product{Name: name, Price: 1, Color: "red"})
	}

	lines := strings.Split(strings.TrimSuffix(RenderProducts(products), "\n"), "\n")
	require.Len(t, lines, len(products))
	assert.True(t, strings.HasPrefix(lines[0], "Product 1: Name: a,"))
	assert.True(t, strings.HasPrefix(lines[11], "Product 12: Name: l,"))
}

func TestRenderProductsEmpty(t *testing.T) {
	assert.Equal(t, "", RenderProducts(nil))
}

func TestBuildSeedTranscriptWithHistory(t *testing.T) {
	seed := BuildSeedTranscript("Asha who is a female of age 29", []domain.Product{
		{Name: "Scarf", Price: 15, Color: "red"},
		{Name: "Boots", Price: 140, Color: "black"},
	})

	require.Len(t, seed, 8)
	for _, turn := range seed {
		assert.Equal(t, domain.RoleSystem, turn.Role)
	}
	assert.Equal(t, rolePrompt, seed[0].Content)
	assert.Equal(t, "Suggest clothes for Asha who is a female of age 29", seed[1].Content)
	assert.Equal(t, historyAnnouncement, seed[2].Content)
	assert.Contains(t, seed[3].Content, "Product 1: Name: Scarf, Price: 15, Color: red")
	assert.Contains(t, seed[3].Content, "Product 2: Name: Boots, Price: 140, Color: black")
	assert.Equal(t, historyHint, seed[4].Content)
	assert.Equal(t, closingPrompts[0], seed[5].Content)
	assert.Equal(t, closingPrompts[2], seed[7].Content)
}

func TestBuildSeedTranscriptWithoutHistory(t *testing.T) {
	seed := BuildSeedTranscript("Ravi who is a male of age 41", nil)

	require.Len(t, seed, 5)
	assert.Equal(t, rolePrompt, seed[0].Content)
	assert.Equal(t, "Suggest clothes for Ravi who is a male of age 41", seed[1].Content)
	assert.Equal(t, closingPrompts, []string{seed[2].Content, seed[3].Content, seed[4].Content})
}

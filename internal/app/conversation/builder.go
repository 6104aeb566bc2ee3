package conversation

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

const (
	rolePrompt = "You are an outfit recommender. You converse with the user, take in their suggestions and choices, " +
		"ask for details, take their previous order history into account, and generate small search strings for them " +
		"to search fashion websites"

	historyAnnouncement = "You are going to be provided with the user's previously ordered products. " +
		"This will help you to understand them more"
	historyIntro = "The user has bought the following products in the past: "
	historyHint  = "You can use the name, color and price to estimate the kind of user preference. " +
		"You can still ask these questions to the user, but this might influence your search string"
)

var closingPrompts = []string{
	"You have to ask users questions to get their preferences around colour, their budget, occasion",
	"Get these details from users unless they tell you that they don't have a preference and then generate a search string",
	"The gender provided earlier is very important. Include it in the search string as well",
}

// Transient instructions appended before every model call and dropped
// before the transcript is saved again.
var searchStringPrompts = []string{
	"One last thing. If you have got to know the user well, and you have a search_string which I can use to search " +
		`for products. Format it like this: search_string = "<search_string>"`,
	"Format when giving search string is: search_string='search_string'",
}

// BuildSeedTranscript returns the system turns every session starts with.
func BuildSeedTranscript(persona string, history []domain.Product) domain.Transcript {
	seed := domain.Transcript{
		domain.SystemTurn(rolePrompt),
		domain.SystemTurn("Suggest clothes for " + persona),
	}

	if len(history) > 0 {
		seed = append(seed,
			domain.SystemTurn(historyAnnouncement),
			domain.SystemTurn(historyIntro+RenderProducts(history)),
			domain.SystemTurn(historyHint),
		)
	}

	for _, p := range closingPrompts {
		seed = append(seed, domain.SystemTurn(p))
	}
	return seed
}

// RenderProducts lists products one per line, numbered from 1.
func RenderProducts(products []domain.Product) string {
	var b strings.Builder
	for i, p := range products {
		fmt.Fprintf(&b, "Product %d: %s\n", i+1, p)
	}
	return b.String()
}

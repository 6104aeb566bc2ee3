package llm

import (
	"context"
	"strings"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

// MockLLM is a scripted model for local runs. It asks one question per
// preference and emits a search string once the shopper has answered them
// or says they have no preference.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

var mockQuestions = []string{
	"What colour are you leaning towards?",
	"What budget should I keep in mind?",
	"What occasion is the outfit for?",
}

func (m *MockLLM) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	var answers []string
	for _, t := range req.Turns {
		if t.Role != domain.RoleUser {
			continue
		}
		if strings.Contains(strings.ToLower(t.Content), "no preference") {
			return searchLine(answers), nil
		}
		answers = append(answers, strings.TrimSpace(t.Content))
	}

	if len(answers) >= len(mockQuestions)+1 {
		return searchLine(answers), nil
	}
	if len(answers) == 0 {
		return "Hi! Tell me what you are shopping for today.", nil
	}
	return mockQuestions[len(answers)-1], nil
}

func searchLine(answers []string) string {
	query := strings.Join(answers, " ")
	if query == "" {
		query = "outfit"
	}
	return `Great, here is what I found. search_string="` + query + `"`
}

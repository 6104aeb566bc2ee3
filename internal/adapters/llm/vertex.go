package llm

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

type VertexClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexClient creates an LLMClient based on Vertex AI (Gemini).
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, errors.New("vertex project and location must be set")
	}
	if modelName == "" || strings.HasPrefix(modelName, "gpt-") {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Vertex AI client")
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// toContents splits a transcript into Gemini's system instruction and
// user/model contents. Gemini has no system role inside the chat, so every
// system turn is folded into the instruction, in order.
func toContents(turns domain.Transcript) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			system = append(system, t.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n"), contents
}

// Complete implements domain.LLMClient using Vertex AI.
func (v *VertexClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	system, contents := toContents(req.Turns)
	if len(contents) == 0 {
		// Gemini rejects a request with no contents.
		contents = append(contents, genai.NewContentFromText("Hello", genai.RoleUser))
	}

	cfg := &genai.GenerateContentConfig{
		// According to official examples, the role here is usually RoleUser, not "system"
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	start := time.Now()
	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	observability.ObserveLLMRequest("vertex", err, time.Since(start))
	if err != nil {
		return "", errors.Wrapf(domain.ErrModelInvocation, "vertex generate content: %v", err)
	}

	text := res.Text()
	if text == "" {
		return "", errors.Wrap(domain.ErrMalformedReply, "vertex returned empty text")
	}
	return text, nil
}

package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIClient creates an LLMClient backed by the OpenAI chat completion API.
// baseURL is optional and points the client at a compatible endpoint.
func NewOpenAIClient(apiKey, baseURL, modelName string, httpClient *http.Client) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if modelName == "" {
		modelName = openai.GPT3Dot5Turbo
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}, nil
}

// Complete implements domain.LLMClient.
func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Turns))
	for _, t := range req.Turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openaiRole(t.Role),
			Content: t.Content,
		})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.modelName,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	observability.ObserveLLMRequest("openai", err, time.Since(start))
	if err != nil {
		return "", errors.Wrapf(domain.ErrModelInvocation, "openai chat completion: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.Wrap(domain.ErrMalformedReply, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func openaiRole(r domain.Role) string {
	switch r {
	case domain.RoleUser:
		return openai.ChatMessageRoleUser
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleSystem
	}
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultGroqURL   = "https://api.groq.com/openai/v1/"
	DefaultGroqModel = "llama-3.3-70b-versatile"
)

type GroqConfig struct {
	APIKey      string
	URL         string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

type groq struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewGroq returns a Completer using the OpenAI compatible endpoint of Groq.
func NewGroq(cfg GroqConfig) (Completer, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("groq: api key is required")
	}
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultGroqURL
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGroqModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(url),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0), // fallback handles it
	)
	return &groq{client: client, model: model, temperature: cfg.Temperature}, nil
}

func (g *groq) Name() string {
	return "groq"
}

func (g *groq) Complete(ctx context.Context, p Prompt) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if p.System != "" {
		messages = append(messages, openai.SystemMessage(p.System))
	}
	messages = append(messages, openai.UserMessage(p.User))

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       g.model,
		Temperature: openai.Float(g.temperature),
	}
	if p.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", fmt.Errorf("groq: status %d: %w", apierr.StatusCode, err)
		}
		return "", fmt.Errorf("groq: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq: %w", ErrEmptyResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("groq: %w", ErrEmptyResponse)
	}
	return text, nil
}

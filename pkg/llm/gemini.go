package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32

	// URL overrides the endpoint of Gemini API. Empty means the default.
	URL        string
	HTTPClient *http.Client
}

// Gemini is a Completer and Describer backed by Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

var _ Completer = &Gemini{}
var _ Describer = &Gemini{}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if url := strings.TrimSpace(cfg.URL); url != "" {
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: url}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &Gemini{client: client, model: model, temperature: cfg.Temperature}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) config(system string, json bool) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if json {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func (g *Gemini) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx, g.model, genai.Text(p.User), g.config(p.System, p.JSON),
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

func (g *Gemini) Describe(ctx context.Context, image []byte, mime string, prompt string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("gemini: image is required")
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromBytes(image, mime),
				genai.NewPartFromText(prompt),
			},
			genai.RoleUser,
		),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.config("", false))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

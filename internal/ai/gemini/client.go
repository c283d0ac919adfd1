package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.5-flash"

	systemInstruction = "You are a labour market analyst. Answer with a single JSON document and nothing else."
)

var (
	errNotInitialized = errors.New("gemini generator is not initialized")
	errEmptyPrompt    = errors.New("prompt must not be empty")
	errEmptyResponse  = errors.New("gemini api returned empty response")
)

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator sends single-turn prompts to a Gemini model and expects JSON back.
type Generator struct {
	models      modelsAPI
	modelName   string
	temperature float32
}

// NewGenerator creates a Generator for the Gemini API backend. An empty model
// selects gemini-2.5-flash.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model), nil
}

func newGenerator(models modelsAPI, model string) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Generator{models: models, modelName: model, temperature: 0.2}
}

// GenerateContent runs prompt and returns the text parts of every candidate
// joined by newlines.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errNotInitialized
	}
	if prompt = strings.TrimSpace(prompt); prompt == "" {
		return "", errEmptyPrompt
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), g.config())
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", g.modelName, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func (g *Generator) config() *genai.GenerateContentConfig {
	temperature := g.temperature
	return &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		Temperature:       &temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

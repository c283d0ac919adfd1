package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	resp      *genai.GenerateContentResponse
	err       error
	gotModel  string
	gotConfig *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	return f.resp, f.err
}

func TestGeneratorJoinsTextParts(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: " {\"summary\": "}, nil, {Text: "  "}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "\"ok\"}"}}}},
		},
	}}
	gen := newGenerator(fake, "")

	got, err := gen.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{\"summary\":\n\"ok\"}" {
		t.Fatalf("unexpected output %q", got)
	}
	if fake.gotModel != defaultModel || gen.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", fake.gotModel)
	}
	if fake.gotConfig == nil || fake.gotConfig.ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON response config, got %+v", fake.gotConfig)
	}
	if fake.gotConfig.SystemInstruction == nil || fake.gotConfig.Temperature == nil {
		t.Fatalf("expected system instruction and temperature, got %+v", fake.gotConfig)
	}
}

func TestGeneratorErrors(t *testing.T) {
	t.Parallel()

	if _, err := newGenerator(&fakeModels{}, "m").GenerateContent(context.Background(), "  "); !errors.Is(err, errEmptyPrompt) {
		t.Fatalf("expected empty prompt error, got %v", err)
	}

	boom := errors.New("boom")
	if _, err := newGenerator(&fakeModels{err: boom}, "m").GenerateContent(context.Background(), "p"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	empty := &fakeModels{resp: &genai.GenerateContentResponse{}}
	if _, err := newGenerator(empty, "m").GenerateContent(context.Background(), "p"); !errors.Is(err, errEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
	if _, err := newGenerator(&fakeModels{}, "m").GenerateContent(context.Background(), "p"); !errors.Is(err, errEmptyResponse) {
		t.Fatalf("expected empty response error for nil response, got %v", err)
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "p"); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected error for nil generator")
	}
	if _, err := NewGenerator(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

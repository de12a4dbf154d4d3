package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestCompleteSendsJSONConfig(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"match_score":`, ` 80}`)}
	client := newClient(models, "")

	out, err := client.Complete(context.Background(), "score this")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if out != `{"match_score": 80}` {
		t.Fatalf("unexpected output %q", out)
	}
	if models.model != defaultModel {
		t.Fatalf("expected default model, got %q", models.model)
	}
	if models.prompt != "score this" {
		t.Fatalf("prompt not forwarded: %q", models.prompt)
	}
	if models.config == nil || models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected application/json response type, got %+v", models.config)
	}
	if len(models.config.SafetySettings) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(models.config.SafetySettings))
	}
	for _, s := range models.config.SafetySettings {
		if s.Threshold != genai.HarmBlockThresholdBlockNone {
			t.Fatalf("expected BLOCK_NONE for %s, got %s", s.Category, s.Threshold)
		}
	}
}

func TestCompleteWrapsProviderError(t *testing.T) {
	apiErr := genai.APIError{Code: 503, Status: "UNAVAILABLE"}
	client := newClient(&fakeModels{err: apiErr}, "gemini-pro")

	_, err := client.Complete(context.Background(), "score this")
	if err == nil {
		t.Fatalf("expected error")
	}
	var got genai.APIError
	if !errors.As(err, &got) || got.Code != 503 {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	client := newClient(&fakeModels{resp: textResponse("  ")}, "gemini-pro")
	_, err := client.Complete(context.Background(), "score this")
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

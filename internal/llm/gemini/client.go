package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// modelsAPI is the slice of genai.Models used here.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends match prompts to the Gemini API.
type Client struct {
	models    modelsAPI
	modelName string
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
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
	return newClient(client.Models, model), nil
}

func newClient(models modelsAPI, model string) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Client{models: models, modelName: model}
}

// Model reports the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

// Complete asks for a JSON reply with safety filtering disabled and returns the text parts.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini client is not initialized")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(prompt), generationConfig())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

func generationConfig() *genai.GenerateContentConfig {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SafetySettings:   settings,
	}
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-screener/internal/analyses"
	"resume-screener/internal/shared/telemetry"
)

const previewLimit = 200

// Requester implements analyses.Analyzer on top of a text-completion provider.
type Requester struct {
	Provider Completer
	// Name labels log lines, e.g. "gemini" or "openai".
	Name string
}

// NewRequester wraps a provider. A nil provider falls back to PlaceholderClient.
func NewRequester(provider Completer, name string) *Requester {
	if provider == nil {
		provider = PlaceholderClient{}
		name = "none"
	}
	return &Requester{Provider: provider, Name: name}
}

// Analyze sends one match prompt and parses the reply.
func (r *Requester) Analyze(ctx context.Context, resumeText, jobDescription string) (analyses.Result, error) {
	prompt := BuildPrompt(resumeText, jobDescription)
	telemetry.Debug("llm.request", map[string]any{
		"provider":     r.Name,
		"prompt_chars": len(prompt),
	})

	start := time.Now()
	raw, err := r.Provider.Complete(ctx, prompt)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		telemetry.Warn("llm.error", map[string]any{
			"provider":   r.Name,
			"latency_ms": latency,
			"error":      err,
		})
		if isTimeout(ctx, err) {
			return analyses.Result{}, fmt.Errorf("%w: %w", analyses.ErrAnalysisTimeout, err)
		}
		return analyses.Result{}, fmt.Errorf("%w: %w", analyses.ErrAnalysisService, err)
	}

	telemetry.Debug("llm.response", map[string]any{
		"provider":       r.Name,
		"latency_ms":     latency,
		"response_chars": len(raw),
		"preview":        telemetry.Truncate(raw, previewLimit),
	})

	result, err := ParseResult(raw)
	if err != nil {
		telemetry.Warn("llm.parse_failed", map[string]any{
			"provider": r.Name,
			"preview":  telemetry.Truncate(raw, previewLimit),
			"error":    err,
		})
		return analyses.Result{}, err
	}
	return result, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

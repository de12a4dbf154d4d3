package analyses

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/telemetry"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string, fileName string) (string, error)
}

// Analyzer judges resume text against a job description.
// Implementations report failures wrapping ErrAnalysisService or ErrAnalysisParse.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (Result, error)
}

// Service runs the extract → analyze → store pipeline. It holds no per-request state.
type Service struct {
	Extractor TextExtractor
	Analyzer  Analyzer
	Repo      Repo
	// AnalysisTimeout bounds the call to Analyzer; zero means no bound.
	AnalysisTimeout time.Duration
}

// Analyze runs one submission through the pipeline. Input is validated before any
// I/O. A storage failure is logged and does not fail the call.
func (s *Service) Analyze(ctx context.Context, sub Submission) (Result, error) {
	sub.FileName = cleanFileName(sub.FileName)
	if len(sub.Content) == 0 || sub.FileName == "" || strings.TrimSpace(sub.JobDescription) == "" {
		metrics.IncAnalysisFailed(metrics.StageInput)
		return Result{}, ErrClientInput
	}

	// Once started, a submission runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	reqID := requestIDFromContext(ctx)
	start := time.Now()
	metrics.IncAnalysisStarted()

	text, err := s.Extractor.ExtractText(ctx, sub.Content, sub.MimeType, sub.FileName)
	if err != nil {
		metrics.IncAnalysisFailed(metrics.StageExtract)
		telemetry.Error("analysis.extract_failed", map[string]any{
			"request_id": reqID,
			"filename":   sub.FileName,
			"error":      err,
		})
		return Result{}, fmt.Errorf("%w: %w", ErrDocumentUnreadable, err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.IncAnalysisFailed(metrics.StageExtract)
		telemetry.Warn("analysis.no_text", map[string]any{
			"request_id": reqID,
			"filename":   sub.FileName,
		})
		return Result{}, fmt.Errorf("%w: no extractable text", ErrDocumentUnreadable)
	}
	telemetry.Info("analysis.extracted", map[string]any{
		"request_id": reqID,
		"filename":   sub.FileName,
		"text_chars": len(text),
	})

	result, err := s.analyze(ctx, text, sub.JobDescription)
	if err != nil {
		metrics.IncAnalysisFailed(metrics.StageAnalyze)
		telemetry.Error("analysis.failed", map[string]any{
			"request_id": reqID,
			"filename":   sub.FileName,
			"error":      err,
		})
		return Result{}, err
	}

	stored, err := s.Repo.Save(ctx, Record{
		Filename:       sub.FileName,
		JobDescription: sub.JobDescription,
		Result:         result,
	})
	if err != nil {
		metrics.IncStoreFailed()
		telemetry.Error("analysis.store_failed", map[string]any{
			"request_id": reqID,
			"filename":   sub.FileName,
			"error":      err,
		})
	}

	elapsed := time.Since(start)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  reqID,
		"filename":    sub.FileName,
		"match_score": result.MatchScore,
		"analysis_id": stored.ID,
		"stored":      err == nil,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return result, nil
}

// List returns every stored analysis, most recent first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return records, nil
}

func (s *Service) analyze(ctx context.Context, text, jobDescription string) (Result, error) {
	if s.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AnalysisTimeout)
		defer cancel()
	}

	result, err := s.Analyzer.Analyze(ctx, text, jobDescription)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrAnalysisService), errors.Is(err, ErrAnalysisParse):
		return Result{}, err
	case errors.Is(err, context.DeadlineExceeded):
		return Result{}, fmt.Errorf("%w: %w", ErrAnalysisTimeout, err)
	default:
		return Result{}, fmt.Errorf("%w: %w", ErrAnalysisService, err)
	}
}

// cleanFileName keeps only the final path element of a client-supplied name.
func cleanFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

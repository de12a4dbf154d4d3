package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"resume-screener/internal/analyses"
)

// ParseResult decodes a model reply into a Result. match_score is required;
// other missing or null fields get defaults. Anything else malformed fails with
// analyses.ErrAnalysisParse.
func ParseResult(raw string) (analyses.Result, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return analyses.Result{}, fmt.Errorf("%w: empty response", analyses.ErrAnalysisParse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: %v", analyses.ErrAnalysisParse, err)
	}
	if fields == nil {
		return analyses.Result{}, fmt.Errorf("%w: response is not a JSON object", analyses.ErrAnalysisParse)
	}

	var (
		out analyses.Result
		err error
	)
	if out.MatchScore, err = parseScore(fields["match_score"]); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: match_score: %v", analyses.ErrAnalysisParse, err)
	}
	if out.Justification, err = parseString(fields["justification"], analyses.NoSummary); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: justification: %v", analyses.ErrAnalysisParse, err)
	}
	if out.ExtractedSkills, err = parseList(fields["extracted_skills"]); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: extracted_skills: %v", analyses.ErrAnalysisParse, err)
	}
	if out.ExtractedExperience, err = parseString(fields["extracted_experience"], analyses.NotFound); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: extracted_experience: %v", analyses.ErrAnalysisParse, err)
	}
	if out.ExtractedEducation, err = parseString(fields["extracted_education"], analyses.NotFound); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: extracted_education: %v", analyses.ErrAnalysisParse, err)
	}
	if out.MissingKeywords, err = parseList(fields["missing_keywords"]); err != nil {
		return analyses.Result{}, fmt.Errorf("%w: missing_keywords: %v", analyses.ErrAnalysisParse, err)
	}
	return out, nil
}

var errMissing = errors.New("missing")

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseScore accepts numbers and numeric strings; fractions round half away from zero.
func parseScore(raw json.RawMessage) (int, error) {
	if isAbsent(raw) {
		return 0, errMissing
	}

	var value float64
	var asString string
	switch {
	case json.Unmarshal(raw, &value) == nil:
	case json.Unmarshal(raw, &asString) == nil:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(asString), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", asString)
		}
		value = parsed
	default:
		return 0, fmt.Errorf("unexpected value %s", string(raw))
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) > math.MaxInt32 {
		return 0, fmt.Errorf("out of integer range: %v", value)
	}
	return int(math.Round(value)), nil
}

func parseString(raw json.RawMessage, def string) (string, error) {
	if isAbsent(raw) {
		return def, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected string, got %s", string(raw))
	}
	return s, nil
}

func parseList(raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("expected list of strings, got %s", string(raw))
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// extractJSON strips surrounding whitespace and markdown code fences.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// Package shortlist ranks analysed candidates and filters them by a minimum score.
package shortlist

import (
	"sort"

	"resume-screener/internal/analyses"
)

// DefaultThreshold is the minimum score shown when none is configured.
const DefaultThreshold = 75

// Tier buckets a score for display.
type Tier string

const (
	TierStrong Tier = "strong"
	TierFair   Tier = "fair"
	TierWeak   Tier = "weak"
)

// Candidate is one analysed file.
type Candidate struct {
	FileName string
	analyses.Result
}

// FromRecords converts stored analyses into candidates.
func FromRecords(records []analyses.Record) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, rec := range records {
		out = append(out, Candidate{FileName: rec.Filename, Result: rec.Result})
	}
	return out
}

// Rank returns a copy of items ordered by score, highest first. Equal scores keep input order.
func Rank(items []Candidate) []Candidate {
	out := append([]Candidate(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// Filter ranks items and keeps those scoring at least threshold.
func Filter(items []Candidate, threshold int) []Candidate {
	ranked := Rank(items)
	out := make([]Candidate, 0, len(ranked))
	for _, c := range ranked {
		if c.MatchScore >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// TierOf maps a score to its display tier.
func TierOf(score int) Tier {
	switch {
	case score >= 85:
		return TierStrong
	case score >= 70:
		return TierFair
	default:
		return TierWeak
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"resume-screener/internal/analyses"
	"resume-screener/internal/catalog"
	"resume-screener/internal/shared/telemetry"
	"resume-screener/internal/shortlist"
)

type candidateView struct {
	File string         `json:"file"`
	Tier shortlist.Tier `json:"tier"`
	analyses.Result
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCandidates(w io.Writer, format string, threshold int, items []shortlist.Candidate) error {
	if format == "json" {
		views := make([]candidateView, 0, len(items))
		for _, c := range items {
			views = append(views, candidateView{File: c.FileName, Tier: shortlist.TierOf(c.MatchScore), Result: c.Result})
		}
		return writeJSON(w, views)
	}

	fmt.Fprintf(w, "Shortlisted candidates (score >= %d%%)\n", threshold)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "File", "Score", "Tier", "Skills", "Missing"})
	table.SetAutoWrapText(false)
	for i, c := range items {
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.FileName,
			fmt.Sprintf("%d%%", c.MatchScore),
			string(shortlist.TierOf(c.MatchScore)),
			strings.Join(c.ExtractedSkills, ", "),
			strings.Join(c.MissingKeywords, ", "),
		})
	}
	table.Render()
	return nil
}

func renderRecords(w io.Writer, format string, records []analyses.Record) error {
	if format == "json" {
		return writeJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No analyses stored yet.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "File", "Score", "Date", "Justification", "Skills", "Missing"})
	table.SetAutoWrapText(false)
	for _, rec := range records {
		table.Append([]string{
			strconv.FormatInt(rec.ID, 10),
			rec.Filename,
			strconv.Itoa(rec.MatchScore),
			rec.AnalysisDate.Local().Format(time.DateTime),
			telemetry.Truncate(rec.Justification, 60),
			strings.Join(rec.ExtractedSkills, ", "),
			strings.Join(rec.MissingKeywords, ", "),
		})
	}
	table.Render()
	return nil
}

func renderCatalog(w io.Writer, format string, cat *catalog.Catalog) error {
	if format == "json" {
		return writeJSON(w, cat.Jobs())
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Role", "Key skills"})
	table.SetAutoWrapText(false)
	for _, category := range cat.Categories() {
		for _, role := range cat.RolesIn(category) {
			job, err := cat.Find(role)
			if err != nil {
				return err
			}
			table.Append([]string{category, role, strings.Join(job.Skills, ", ")})
		}
	}
	table.Render()
	return nil
}

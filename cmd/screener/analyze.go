package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-screener/internal/catalog"
	"resume-screener/internal/client"
	"resume-screener/internal/shortlist"
)

var errNoJobDescription = errors.New("a job description is required: use --job-description, --job-file or --template")

// Replaceable in tests.
var (
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	pickTemplate = promptTemplate
)

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var (
		jobDescription string
		jobFile        string
		template       string
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze resumes against a job description and print the shortlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("at least one resume file is required")
			}
			cfg, err := getConfig(v)
			if err != nil {
				return err
			}
			jd, err := resolveJobDescription(cfg, jobDescription, jobFile, template)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, cfg, jd, args)
		},
	}
	cmd.Flags().StringVar(&jobDescription, "job-description", "", "job description text")
	cmd.Flags().StringVar(&jobFile, "job-file", "", "file containing the job description")
	cmd.Flags().StringVar(&template, "template", "", "role name from the template catalogue")
	cmd.MarkFlagsMutuallyExclusive("job-description", "job-file", "template")
	return cmd
}

func resolveJobDescription(cfg cliConfig, text, file, role string) (string, error) {
	var jd string
	switch {
	case text != "":
		jd = text
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading job file: %w", err)
		}
		jd = string(data)
	case role != "":
		cat, err := loadCatalog(cfg)
		if err != nil {
			return "", err
		}
		job, err := cat.Find(role)
		if err != nil {
			return "", err
		}
		jd = job.Render()
	case stdinIsTerminal():
		cat, err := loadCatalog(cfg)
		if err != nil {
			return "", err
		}
		job, err := pickTemplate(cat)
		if err != nil {
			return "", err
		}
		jd = job.Render()
	}
	if strings.TrimSpace(jd) == "" {
		return "", errNoJobDescription
	}
	return jd, nil
}

func promptTemplate(cat *catalog.Catalog) (catalog.Job, error) {
	categorySelect := promptui.Select{
		Label: "Job category",
		Items: cat.Categories(),
		Size:  10,
	}
	_, category, err := categorySelect.Run()
	if err != nil {
		return catalog.Job{}, err
	}

	roleSelect := promptui.Select{
		Label: "Job role",
		Items: cat.RolesIn(category),
		Size:  10,
	}
	_, role, err := roleSelect.Run()
	if err != nil {
		return catalog.Job{}, err
	}
	return cat.Find(role)
}

func runAnalyze(cmd *cobra.Command, cfg cliConfig, jd string, files []string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()
	c := client.New(cfg.Server, cfg.Timeout)

	results := make([]shortlist.Candidate, 0, len(files))
	for i, path := range files {
		fmt.Fprintf(stderr, "Analyzing %s (%d/%d)...\n", path, i+1, len(files))
		res, err := c.AnalyzeFile(ctx, path, jd)
		if err != nil {
			fmt.Fprintf(stderr, "  %s: %v\n", path, err)
			continue
		}
		results = append(results, shortlist.Candidate{FileName: path, Result: res})
	}
	if len(results) == 0 {
		return errors.New("no resumes were analyzed")
	}

	selected := shortlist.Filter(results, cfg.Threshold)
	out := cmd.OutOrStdout()
	if len(selected) == 0 {
		if cfg.Format == "json" {
			return writeJSON(out, []candidateView{})
		}
		fmt.Fprintf(out, "No candidates meet the score threshold of %d%%. Try a lower score.\n", cfg.Threshold)
		return nil
	}
	return renderCandidates(out, cfg.Format, cfg.Threshold, selected)
}

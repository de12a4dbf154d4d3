package main

// Run one resume through extraction and the judgment provider without the HTTP server:
//   go run ./cmd/prompttest -resume cv.pdf -jd job.txt

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/extract"
	"resume-screener/internal/llm"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf or docx)")
	jdPath := flag.String("jd", "", "Path to job description file")
	outPath := flag.String("out", "", "Path to write the raw model reply (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider: gemini, openai or none")
	model := flag.String("model", "", "LLM model (default depends on provider)")
	showPrompt := flag.Bool("show-prompt", false, "Print the prompt before sending it")
	flag.Parse()

	if _, err := telemetry.Setup("console", cfg.LogLevel); err != nil {
		exitErr(fmt.Sprintf("logger setup: %v", err))
	}
	defer telemetry.Sync()

	if strings.TrimSpace(*resumePath) == "" || strings.TrimSpace(*jdPath) == "" {
		exitErr("both -resume and -jd are required")
	}

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	jdBytes, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}

	ctx := context.Background()
	fileName := filepath.Base(*resumePath)
	resumeText, err := extract.ExtractTextFromBytes(ctx, resumeBytes, "", fileName)
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	if strings.TrimSpace(resumeText) == "" {
		exitErr("resume has no extractable text")
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(*provider))
	cfg.LLMModel = *model
	completer, name, err := bootstrap.NewCompleter(ctx, cfg)
	if err != nil {
		exitErr(fmt.Sprintf("llm provider: %v", err))
	}

	prompt := llm.BuildPrompt(resumeText, string(jdBytes))
	if *showPrompt {
		fmt.Fprintln(os.Stderr, prompt)
	}

	raw, err := completer.Complete(ctx, prompt)
	if err != nil {
		exitErr(fmt.Sprintf("%s: %v", name, err))
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(raw), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	result, err := llm.ParseResult(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, raw)
		exitErr(err.Error())
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	fmt.Println(string(pretty))
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

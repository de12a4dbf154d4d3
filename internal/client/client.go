// Package client talks to the screening API over HTTP.
package client

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"resume-screener/internal/analyses"
	"resume-screener/internal/shared/server/respond"
)

// DefaultTimeout matches the server's analysis budget.
const DefaultTimeout = 90 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client calls the analysis and listing endpoints.
type Client struct {
	rc *resty.Client
}

// New builds a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetHostURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// AnalyzeFile uploads the file at path with the job description.
func (c *Client) AnalyzeFile(ctx context.Context, path, jobDescription string) (analyses.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return analyses.Result{}, err
	}
	return c.Analyze(ctx, filepath.Base(path), content, jobDescription)
}

// Analyze uploads one document and returns the judgment.
func (c *Client) Analyze(ctx context.Context, fileName string, content []byte, jobDescription string) (analyses.Result, error) {
	var out analyses.Result
	var apiErr respond.ErrorResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetFileReader("resume", fileName, bytes.NewReader(content)).
		SetFormData(map[string]string{"job_description": jobDescription}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/analyze")
	if err != nil {
		return analyses.Result{}, fmt.Errorf("analyze %s: %w", fileName, err)
	}
	if resp.IsError() {
		return analyses.Result{}, toAPIError(resp, apiErr)
	}
	return out, nil
}

// List fetches every stored analysis, newest first.
func (c *Client) List(ctx context.Context) ([]analyses.Record, error) {
	var out []analyses.Record
	var apiErr respond.ErrorResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get("/resumes")
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	if resp.IsError() {
		return nil, toAPIError(resp, apiErr)
	}
	if out == nil {
		out = []analyses.Record{}
	}
	return out, nil
}

func toAPIError(resp *resty.Response, body respond.ErrorResponse) error {
	msg := body.Error
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	return &APIError{Status: resp.StatusCode(), Code: body.Code, Message: msg}
}

package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/server/respond"
)

func newTestRouter(svc *Service, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc, maxUpload).RegisterRoutes(router)
	return router
}

func multipartRequest(t *testing.T, fileName string, content []byte, jobDescription string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := writer.CreateFormFile("resume", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if jobDescription != "" {
		if err := writer.WriteField("job_description", jobDescription); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) respond.ErrorResponse {
	t.Helper()
	var body respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	repo := NewMemoryRepo()
	extractor := &fakeExtractor{text: "Jane Doe Go"}
	svc := &Service{Extractor: extractor, Analyzer: &fakeAnalyzer{result: sampleResult()}, Repo: repo}
	router := newTestRouter(svc, 0)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "jane.pdf", []byte("%PDF-1.4 body"), "Backend engineer"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got Result
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got.MatchScore != 78 || got.MissingKeywords[0] != "Kafka" {
		t.Fatalf("unexpected result %+v", got)
	}
	if !strings.Contains(resp.Body.String(), `"extracted_skills":["Go","SQL"]`) {
		t.Fatalf("expected snake_case keys, got %s", resp.Body.String())
	}

	records, _ := repo.ListAll(context.Background())
	if len(records) != 1 || records[0].Filename != "jane.pdf" {
		t.Fatalf("expected stored record, got %+v", records)
	}
}

func TestAnalyzeHandlerMissingInput(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{name: "no file", req: func(t *testing.T) *http.Request {
			return multipartRequest(t, "", nil, "Backend engineer")
		}},
		{name: "no job description", req: func(t *testing.T) *http.Request {
			return multipartRequest(t, "jane.pdf", []byte("data"), "")
		}},
		{name: "not multipart", req: func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/analyze", nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &fakeExtractor{text: "x"}
			svc := &Service{Extractor: extractor, Analyzer: &fakeAnalyzer{}, Repo: NewMemoryRepo()}
			router := newTestRouter(svc, 0)

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, tt.req(t))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			body := decodeError(t, resp)
			if body.Code != ErrorCodeValidation || body.Error != "Missing file or job description" {
				t.Fatalf("unexpected error body %+v", body)
			}
			if extractor.calls != 0 {
				t.Fatalf("extractor should not run")
			}
		})
	}
}

func TestAnalyzeHandlerFileTooLarge(t *testing.T) {
	svc := &Service{Extractor: &fakeExtractor{text: "x"}, Analyzer: &fakeAnalyzer{}, Repo: NewMemoryRepo()}
	router := newTestRouter(svc, 256)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "big.pdf", bytes.Repeat([]byte("a"), 4096), "jd"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Code != ErrorCodeValidation {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestAnalyzeHandlerFailures(t *testing.T) {
	tests := []struct {
		name      string
		extractor *fakeExtractor
		analyzer  *fakeAnalyzer
		code      string
	}{
		{name: "unreadable", extractor: &fakeExtractor{err: errors.New("corrupt")}, analyzer: &fakeAnalyzer{}, code: ErrorCodeDocumentUnreadable},
		{name: "parse", extractor: &fakeExtractor{text: "x"}, analyzer: &fakeAnalyzer{err: ErrAnalysisParse}, code: ErrorCodeAnalysisFailed},
		{name: "service", extractor: &fakeExtractor{text: "x"}, analyzer: &fakeAnalyzer{err: errors.New("boom")}, code: ErrorCodeAnalysisFailed},
		{name: "timeout", extractor: &fakeExtractor{text: "x"}, analyzer: &fakeAnalyzer{err: context.DeadlineExceeded}, code: ErrorCodeAnalysisTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			svc := &Service{Extractor: tt.extractor, Analyzer: tt.analyzer, Repo: repo}
			router := newTestRouter(svc, 0)

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, multipartRequest(t, "jane.pdf", []byte("data"), "jd"))
			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", resp.Code)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Fatalf("expected code %s, got %+v", tt.code, body)
			}
			records, _ := repo.ListAll(context.Background())
			if len(records) != 0 {
				t.Fatalf("failed analysis should not be stored")
			}
		})
	}
}

func TestListHandler(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_, _ = repo.Save(ctx, Record{Filename: "a.pdf", JobDescription: "jd", Result: sampleResult()})
	_, _ = repo.Save(ctx, Record{Filename: "b.pdf", JobDescription: "jd", Result: Result{MatchScore: 10}})

	router := newTestRouter(&Service{Repo: repo}, 0)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/resumes", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var records []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, key := range []string{"id", "filename", "job_description", "match_score", "analysis_date", "justification",
		"extracted_skills", "extracted_experience", "extracted_education", "missing_keywords"} {
		if _, ok := records[0][key]; !ok {
			t.Fatalf("record missing key %s: %v", key, records[0])
		}
	}
	if skills, ok := records[0]["extracted_skills"].([]any); !ok || skills == nil {
		t.Fatalf("expected skills array, got %T", records[0]["extracted_skills"])
	}
}

func TestListHandlerEmptyIsArray(t *testing.T) {
	router := newTestRouter(&Service{Repo: NewMemoryRepo()}, 0)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/resumes", nil))
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", resp.Body.String())
	}
}

func TestListHandlerStorageError(t *testing.T) {
	router := newTestRouter(&Service{Repo: &failingRepo{}}, 0)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/resumes", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Code != ErrorCodeStorage {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

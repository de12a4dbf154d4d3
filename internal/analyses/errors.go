package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrClientInput        = errors.New("missing file or job description")
	ErrDocumentUnreadable = errors.New("could not read document")
	ErrAnalysisService    = errors.New("analysis service error")
	ErrAnalysisTimeout    = fmt.Errorf("%w: timed out", ErrAnalysisService)
	ErrAnalysisParse      = errors.New("analysis parse error")
	ErrStorage            = errors.New("storage error")
)

const (
	ErrorCodeValidation         = "validation_error"
	ErrorCodeDocumentUnreadable = "document_unreadable"
	ErrorCodeAnalysisFailed     = "analysis_failed"
	ErrorCodeAnalysisTimeout    = "analysis_timeout"
	ErrorCodeStorage            = "storage_error"
)

package analyses

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

const defaultMaxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

// NewHandler constructs a Handler. maxUploadSize <= 0 selects the default.
func NewHandler(svc *Service, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadSize: maxUploadSize}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/resumes", h.list)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	var sub Submission
	fileHeader, err := c.FormFile("resume")
	switch {
	case err == nil:
		content, err := readUpload(fileHeader)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file")
			return
		}
		sub.FileName = fileHeader.Filename
		sub.MimeType = fileHeader.Header.Get("Content-Type")
		sub.Content = content
		c.Set("filename", fileHeader.Filename)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// Leave the submission without a document; the service rejects it.
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid multipart form")
		return
	}
	sub.JobDescription = c.PostForm("job_description")

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, err := h.Svc.Analyze(ctx, sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrClientInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Missing file or job description")
		case errors.Is(err, ErrDocumentUnreadable):
			respond.Error(c, http.StatusInternalServerError, ErrorCodeDocumentUnreadable, "Could not extract text from document")
		case errors.Is(err, ErrAnalysisTimeout):
			respond.Error(c, http.StatusInternalServerError, ErrorCodeAnalysisTimeout, "Timed out waiting for the language model")
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeAnalysisFailed, "Failed to get analysis from the language model")
		}
		return
	}

	respond.OK(c, result)
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "Database fetch error")
		return
	}
	respond.OK(c, records)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

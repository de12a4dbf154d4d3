package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrDocumentParse reports a payload that could not be parsed as a document at all.
// A document that parses but carries no text is not an error: it yields "".
var ErrDocumentParse = errors.New("document parse error")

// Extractor turns uploaded documents into plain text.
type Extractor struct{}

// New constructs an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractText extracts the text of data. mimeType and fileName are the client's
// declaration; the payload itself is sniffed first.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	return ExtractTextFromBytes(ctx, data, mimeType, fileName)
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrDocumentParse)
	}
	switch DetectMimeType(data, mimeType, fileName) {
	case MimeDOCX:
		return extractDOCX(data)
	default:
		return extractPDF(data)
	}
}

// DetectMimeType picks the document kind from the payload, falling back to the
// declared media type and then the file extension.
func DetectMimeType(data []byte, mimeType string, fileName string) string {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(MimePDF):
		return MimePDF
	case detected.Is(MimeDOCX):
		return MimeDOCX
	}

	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case MimePDF, MimeDOCX:
		return clean
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return MimeDOCX
	case ".pdf":
		return MimePDF
	}
	return clean
}

func extractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: pdf: %v", ErrDocumentParse, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrDocumentParse, err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		buf.WriteString(pageText(reader, i))
	}
	return strings.TrimSpace(buf.String()), nil
}

// pageText returns the text of page i, or "" when the page yields nothing.
func pageText(reader *pdf.Reader, i int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

func extractDOCX(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrDocumentParse, err)
	}
	return strings.TrimSpace(text), nil
}

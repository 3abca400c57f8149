package extractor

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

func extractPDF(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "read pdf text", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "read pdf text", err)
	}
	return buf.String(), nil
}

package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

// Extractor converts stored documents to plain text, dispatching on the
// declared MIME type. Extraction never mutates the stored bytes and is
// bounded by the caller's context: a timeout is a failure, never success
// with partial text.
type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

type extractResult struct {
	text string
	err  error
}

func (e *Extractor) Extract(ctx context.Context, storagePath, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "extract", err)
	}

	reader, err := e.storage.Open(ctx, storagePath)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open source document", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "read source document", err)
	}

	// Parsing can be CPU-bound on large or hostile files; run it off the
	// calling goroutine so the context deadline stays authoritative.
	done := make(chan extractResult, 1)
	go func() {
		text, err := extractBytes(raw, mimeType)
		done <- extractResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", domain.WrapError(domain.ErrExtraction, "extract", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func extractBytes(raw []byte, mimeType string) (string, error) {
	switch normalizeMime(mimeType) {
	case "text/plain", "text/markdown":
		return extractPlain(raw)
	case "text/html":
		return extractHTML(raw)
	case "application/pdf":
		return extractPDF(raw)
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword":
		return extractDocx(raw)
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return extractXLSX(raw)
	default:
		return "", domain.WrapError(domain.ErrExtraction, "extract",
			fmt.Errorf("unsupported content type %q", mimeType))
	}
}

func extractPlain(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrExtraction, "extract text",
			fmt.Errorf("file is not valid utf-8 text"))
	}
	return string(raw), nil
}

func normalizeMime(mimeType string) string {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(m, ";"); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	return m
}

package ports

import (
	"context"
	"io"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// UploadCandidate is one file offered to the ingestion boundary.
type UploadCandidate struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// DocumentIngestor is the inbound contract for upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, userID string, candidate UploadCandidate) (*domain.Document, error)
	UploadBulk(ctx context.Context, userID string, candidates []UploadCandidate) (*domain.BulkUploadReport, error)
}

// DocumentProcessor is the inbound contract for asynchronous processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document state.
type DocumentReader interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Document, error)
	List(ctx context.Context, userID string, status domain.DocumentStatus, categoryID string, offset, limit int) ([]domain.Document, error)
	Status(ctx context.Context, userID, id string) (*domain.ProcessingStatus, error)
	Stats(ctx context.Context, userID string) (*domain.DocumentStats, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// DocumentQueryService answers natural-language questions against the
// classified corpus.
type DocumentQueryService interface {
	AnswerQuestion(ctx context.Context, userID, question string, documentIDs, categoryIDs []string) (*domain.QueryResult, error)
}

// DocumentRemover deletes a document and its stored file.
type DocumentRemover interface {
	Delete(ctx context.Context, userID, id string) error
}

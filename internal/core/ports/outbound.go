package ports

import (
	"context"
	"io"
	"time"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// DocumentRepository persists and reads document state. Status transitions
// are guarded at the SQL level: each transition method only affects rows in
// the expected prior status, which is what makes duplicate scheduling and
// at-least-once queue delivery safe.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetOwned(ctx context.Context, userID, id string) (*domain.Document, error)

	// ClaimPending moves pending -> processing. Returns false without error
	// when the document is no longer pending (duplicate schedule is a no-op).
	ClaimPending(ctx context.Context, id string) (bool, error)

	// CompleteProcessing atomically writes extracted text, every
	// classification field and the completion timestamp, guarded on
	// status = processing.
	CompleteProcessing(ctx context.Context, id, text, categoryID string, cls domain.Classification, processedAt time.Time) error

	// FailProcessing records the error and moves to failed, leaving
	// classification fields untouched.
	FailProcessing(ctx context.Context, id, message string) error

	List(ctx context.Context, userID string, status domain.DocumentStatus, categoryID string, offset, limit int) ([]domain.Document, error)
	ListCompleted(ctx context.Context, userID string, documentIDs, categoryIDs []string, limit int) ([]domain.Document, error)
	Delete(ctx context.Context, userID, id string) error

	CountsByStatus(ctx context.Context, userID string) (map[string]int, error)
	CountsByCategory(ctx context.Context, userID string) (map[string]int, error)
	RecentUploads(ctx context.Context, userID string, limit int) ([]domain.Document, error)
	AverageConfidence(ctx context.Context, userID string) (*float64, error)
}

// CategoryRepository reads and seeds classification buckets.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	// Seed inserts categories that do not yet exist by name.
	Seed(ctx context.Context, categories []domain.Category) error
}

// ChunkRepository persists retrieval chunks. Rows are immutable and removed
// with their parent document.
type ChunkRepository interface {
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error
}

// ObjectStorage stores raw uploads.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// JobQueue schedules and consumes document processing jobs with
// at-least-once delivery.
type JobQueue interface {
	PublishProcessDocument(ctx context.Context, documentID string) error
	SubscribeProcessDocument(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor converts a stored document into plain text. Implementations
// must honor ctx cancellation; a timeout is a failure, never partial text.
type TextExtractor interface {
	Extract(ctx context.Context, storagePath, mimeType string) (string, error)
}

// ClassificationOracle classifies extracted text. The result is always
// structurally complete even when the raw model output is malformed.
type ClassificationOracle interface {
	Classify(ctx context.Context, text, filename string) (domain.Classification, error)
}

// QueryOracle answers a question against ordered context snippets.
type QueryOracle interface {
	Answer(ctx context.Context, question string, contexts []string) (domain.OracleAnswer, error)
}

// Chunker splits text into overlapping ordered chunks.
type Chunker interface {
	Split(text string) []domain.Chunk
}

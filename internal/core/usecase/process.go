package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

// ProcessDocumentUseCase drives one document through its lifecycle:
// pending -> processing -> completed/failed. Terminal states are never left;
// the pending->processing claim doubles as the duplicate-scheduling guard.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	categories ports.CategoryRepository
	chunks     ports.ChunkRepository
	extractor  ports.TextExtractor
	classifier ports.ClassificationOracle
	chunker    ports.Chunker

	extractTimeout time.Duration
	oracleTimeout  time.Duration
}

// failWriteTimeout bounds the detached failure transition write.
const failWriteTimeout = 5 * time.Second

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	categories ports.CategoryRepository,
	chunks ports.ChunkRepository,
	extractor ports.TextExtractor,
	classifier ports.ClassificationOracle,
	chunker ports.Chunker,
	extractTimeout, oracleTimeout time.Duration,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:           repo,
		categories:     categories,
		chunks:         chunks,
		extractor:      extractor,
		classifier:     classifier,
		chunker:        chunker,
		extractTimeout: extractTimeout,
		oracleTimeout:  oracleTimeout,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	claimed, err := uc.repo.ClaimPending(ctx, documentID)
	if err != nil {
		return fmt.Errorf("claim pending document: %w", err)
	}
	if !claimed {
		// Duplicate schedule or terminal document. At-least-once delivery
		// makes this path normal, not an error.
		slog.Info("processing_claim_noop", "document_id", documentID)
		return nil
	}

	if err := uc.runPipeline(ctx, documentID); err != nil {
		// The pipeline error may be the job context itself expiring. The
		// terminal write must outlive that context or the document stays
		// in processing and redelivery can never reclaim it.
		failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failWriteTimeout)
		defer cancel()
		if failErr := uc.repo.FailProcessing(failCtx, documentID, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return err
	}

	classification, err := uc.classify(ctx, text, doc.Filename)
	if err != nil {
		return err
	}

	categoryID, err := uc.resolveCategory(ctx, classification.CategoryName)
	if err != nil {
		return err
	}

	if err := uc.repo.CompleteProcessing(ctx, doc.ID, text, categoryID, classification, time.Now().UTC()); err != nil {
		return fmt.Errorf("complete processing: %w", err)
	}

	uc.persistChunks(ctx, doc.ID, text)
	return nil
}

func (uc *ProcessDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	extractCtx, cancel := context.WithTimeout(ctx, uc.extractTimeout)
	defer cancel()

	text, err := uc.extractor.Extract(extractCtx, doc.StoragePath, doc.MimeType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.WrapError(domain.ErrExtraction, "extract text", err)
		}
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrExtraction, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

func (uc *ProcessDocumentUseCase) classify(ctx context.Context, text, filename string) (domain.Classification, error) {
	oracleCtx, cancel := context.WithTimeout(ctx, uc.oracleTimeout)
	defer cancel()

	classification, err := uc.classifier.Classify(oracleCtx, text, filename)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify document: %w", err)
	}
	return classification, nil
}

// resolveCategory maps the oracle's category name onto the known set. An
// unknown name leaves the document uncategorized rather than inventing a
// category.
func (uc *ProcessDocumentUseCase) resolveCategory(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	category, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		if domain.IsKind(err, domain.ErrDocumentNotFound) {
			slog.Info("classification_category_unknown", "category_name", name)
			return "", nil
		}
		return "", fmt.Errorf("resolve category: %w", err)
	}
	return category.ID, nil
}

// persistChunks stores retrieval chunks for the completed document. Chunk
// storage feeds future retrieval only, so a failure here does not undo a
// completed classification.
func (uc *ProcessDocumentUseCase) persistChunks(ctx context.Context, documentID, text string) {
	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return
	}
	for i := range chunks {
		chunks[i].DocumentID = documentID
	}
	if err := uc.chunks.InsertChunks(ctx, chunks); err != nil {
		slog.Warn("chunk_persist_failed", "document_id", documentID, "error", err)
	}
}

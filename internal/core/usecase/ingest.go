package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

// IngestDocumentUseCase accepts uploads: validate, persist the raw file,
// create the pending record, schedule background processing. The caller gets
// control back as soon as the job is scheduled; classification outcome is
// observed through the status boundary.
type IngestDocumentUseCase struct {
	validator *FileValidator
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	queue     ports.JobQueue
}

func NewIngestDocumentUseCase(
	validator *FileValidator,
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.JobQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		validator: validator,
		repo:      repo,
		storage:   storage,
		queue:     queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	userID string,
	candidate ports.UploadCandidate,
) (*domain.Document, error) {
	if err := uc.validator.Validate(candidate.Filename, candidate.Size, candidate.MimeType); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(candidate.Filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, candidate.Body); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		UserID:      userID,
		Filename:    candidate.Filename,
		StoragePath: storageKey,
		SizeBytes:   candidate.Size,
		MimeType:    candidate.MimeType,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		uc.discardUpload(ctx, userID, storageKey, "")
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishProcessDocument(ctx, doc.ID); err != nil {
		uc.discardUpload(ctx, userID, storageKey, doc.ID)
		return nil, fmt.Errorf("schedule processing job: %w", err)
	}

	return doc, nil
}

// discardUpload undoes a partial ingestion. Best effort: leftovers are
// logged, never surfaced over the upload error itself.
func (uc *IngestDocumentUseCase) discardUpload(ctx context.Context, userID, storageKey, documentID string) {
	cleanupCtx := context.WithoutCancel(ctx)
	if err := uc.storage.Delete(cleanupCtx, storageKey); err != nil {
		slog.Warn("upload_cleanup_file_failed", "storage_key", storageKey, "error", err)
	}
	if documentID == "" {
		return
	}
	if err := uc.repo.Delete(cleanupCtx, userID, documentID); err != nil {
		slog.Warn("upload_cleanup_record_failed", "document_id", documentID, "error", err)
	}
}

// UploadBulk processes candidates independently in input order. Failure of
// one file never prevents the rest from being attempted; each failure is
// recorded locally in the report.
func (uc *IngestDocumentUseCase) UploadBulk(
	ctx context.Context,
	userID string,
	candidates []ports.UploadCandidate,
) (*domain.BulkUploadReport, error) {
	report := &domain.BulkUploadReport{
		Uploaded: []string{},
		Failed:   []domain.BulkUploadFailure{},
		Total:    len(candidates),
	}

	for _, candidate := range candidates {
		doc, err := uc.Upload(ctx, userID, candidate)
		if err != nil {
			slog.Warn("bulk_upload_file_failed",
				"filename", candidate.Filename,
				"error", err,
			)
			report.Failed = append(report.Failed, domain.BulkUploadFailure{
				Filename: candidate.Filename,
				Error:    err.Error(),
			})
			continue
		}
		report.Uploaded = append(report.Uploaded, doc.Filename)
	}

	report.SuccessCount = len(report.Uploaded)
	report.FailureCount = len(report.Failed)
	return report, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

func newIngestUC(repo *repoFake, storage *storageFake, queue *queueFake) *IngestDocumentUseCase {
	validator := NewFileValidator(1024, []string{"text/plain", "application/pdf"})
	return NewIngestDocumentUseCase(validator, repo, storage, queue)
}

func candidate(name, mime, body string) ports.UploadCandidate {
	return ports.UploadCandidate{
		Filename: name,
		MimeType: mime,
		Size:     int64(len(body)),
		Body:     bytes.NewBufferString(body),
	}
}

func TestUploadSuccess(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := newIngestUC(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "user-1", candidate("report 1.txt", "text/plain", "hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Status != domain.StatusPending {
		t.Fatalf("expected status pending, got %s", doc.Status)
	}
	if doc.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %s", doc.UserID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one repo.Create call, got %d", len(repo.created))
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("expected one scheduled job for %s, got %v", doc.ID, queue.published)
	}
	if !strings.Contains(doc.StoragePath, "_report_1.txt") {
		t.Fatalf("expected sanitized storage key, got %s", doc.StoragePath)
	}
	if storage.saved[doc.StoragePath] != "hello" {
		t.Fatalf("expected saved body hello, got %q", storage.saved[doc.StoragePath])
	}
}

func TestUploadValidationFailurePersistsNothing(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := newIngestUC(repo, storage, queue)

	_, err := uc.Upload(context.Background(), "user-1", candidate("big.txt", "text/plain", strings.Repeat("x", 2048)))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no persisted document, got %d", len(repo.created))
	}
	if len(storage.saved) != 0 {
		t.Fatalf("expected no stored file, got %d", len(storage.saved))
	}
	if len(queue.published) != 0 {
		t.Fatalf("expected no scheduled job, got %v", queue.published)
	}
}

func TestUploadCreateFailureRemovesStoredFile(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := newIngestUC(repo, storage, queue)

	repo.createErr = errors.New("db down")
	_, err := uc.Upload(context.Background(), "user-1", candidate("report.txt", "text/plain", "hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(storage.saved) != 0 {
		t.Fatalf("expected stored file removed, still have %v", storage.saved)
	}
	if len(storage.deleted) != 1 {
		t.Fatalf("expected one storage delete, got %v", storage.deleted)
	}
	if len(queue.published) != 0 {
		t.Fatalf("expected no scheduled job, got %v", queue.published)
	}
}

func TestUploadQueueErrorRemovesFileAndRecord(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{err: errors.New("queue down")}
	uc := newIngestUC(repo, storage, queue)

	_, err := uc.Upload(context.Background(), "user-1", candidate("report.txt", "text/plain", "hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "schedule processing job") {
		t.Fatalf("expected scheduling error, got %v", err)
	}
	if len(storage.saved) != 0 {
		t.Fatalf("expected stored file removed, still have %v", storage.saved)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected pending record removed, got %v", repo.deleted)
	}
	if len(repo.docs) != 0 {
		t.Fatalf("expected no lingering document, got %d", len(repo.docs))
	}
}

func TestUploadBulkPartialFailure(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := newIngestUC(repo, storage, queue)

	candidates := []ports.UploadCandidate{
		candidate("bad-first.exe", "application/octet-stream", "x"),
		candidate("ok-1.txt", "text/plain", "a"),
		candidate("ok-2.txt", "text/plain", "b"),
		candidate("bad-last.exe", "application/octet-stream", "y"),
	}

	report, err := uc.UploadBulk(context.Background(), "user-1", candidates)
	if err != nil {
		t.Fatalf("UploadBulk() error = %v", err)
	}
	if report.Total != 4 {
		t.Fatalf("expected total 4, got %d", report.Total)
	}
	if report.SuccessCount+report.FailureCount != report.Total {
		t.Fatalf("success+failure != total: %+v", report)
	}
	if report.FailureCount != 2 {
		t.Fatalf("expected 2 failures, got %d", report.FailureCount)
	}
	if len(report.Uploaded) != 2 || report.Uploaded[0] != "ok-1.txt" || report.Uploaded[1] != "ok-2.txt" {
		t.Fatalf("expected uploads in input order, got %v", report.Uploaded)
	}
	if report.Failed[0].Filename != "bad-first.exe" || report.Failed[1].Filename != "bad-last.exe" {
		t.Fatalf("expected failures in input order, got %+v", report.Failed)
	}
	if len(queue.published) != 2 {
		t.Fatalf("expected 2 scheduled jobs, got %d", len(queue.published))
	}
}

func TestUploadBulkPersistenceFailureIsolated(t *testing.T) {
	repo := newRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := newIngestUC(repo, storage, queue)

	repo.createErr = errors.New("db down")
	first, err := uc.UploadBulk(context.Background(), "user-1", []ports.UploadCandidate{
		candidate("one.txt", "text/plain", "a"),
	})
	if err != nil {
		t.Fatalf("UploadBulk() error = %v", err)
	}
	if first.FailureCount != 1 {
		t.Fatalf("expected failure recorded, got %+v", first)
	}
	if !strings.Contains(first.Failed[0].Error, "db down") {
		t.Fatalf("expected underlying error in report, got %q", first.Failed[0].Error)
	}
}

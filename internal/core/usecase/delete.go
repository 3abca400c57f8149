package usecase

import (
	"context"
	"fmt"

	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

// DeleteDocumentUseCase removes a document's stored file and its record.
// The file is freed before the record so a surviving record can never point
// at storage that was already reclaimed by someone else.
type DeleteDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
}

func NewDeleteDocumentUseCase(repo ports.DocumentRepository, storage ports.ObjectStorage) *DeleteDocumentUseCase {
	return &DeleteDocumentUseCase{
		repo:    repo,
		storage: storage,
	}
}

func (uc *DeleteDocumentUseCase) Delete(ctx context.Context, userID, id string) error {
	doc, err := uc.repo.GetOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := uc.storage.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}

	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}
	return nil
}

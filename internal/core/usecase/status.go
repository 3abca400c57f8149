package usecase

import (
	"context"
	"fmt"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

// DocumentReadUseCase serves the read-only boundaries: single document,
// listing, processing status, categories and corpus statistics.
type DocumentReadUseCase struct {
	repo       ports.DocumentRepository
	categories ports.CategoryRepository

	recentLimit int
}

func NewDocumentReadUseCase(repo ports.DocumentRepository, categories ports.CategoryRepository) *DocumentReadUseCase {
	return &DocumentReadUseCase{
		repo:        repo,
		categories:  categories,
		recentLimit: 5,
	}
}

func (uc *DocumentReadUseCase) GetByID(ctx context.Context, userID, id string) (*domain.Document, error) {
	return uc.repo.GetOwned(ctx, userID, id)
}

func (uc *DocumentReadUseCase) List(
	ctx context.Context,
	userID string,
	status domain.DocumentStatus,
	categoryID string,
	offset, limit int,
) ([]domain.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.List(ctx, userID, status, categoryID, offset, limit)
}

// Status reports the document lifecycle position. Progress is a coarse
// stage mapping for UX, not a measured percentage.
func (uc *DocumentReadUseCase) Status(ctx context.Context, userID, id string) (*domain.ProcessingStatus, error) {
	doc, err := uc.repo.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	status := &domain.ProcessingStatus{
		DocumentID: doc.ID,
		Status:     doc.Status,
		Progress:   progressFor(doc.Status),
		Error:      doc.Error,
	}

	if doc.Status == domain.StatusCompleted {
		status.Classification = &domain.Classification{
			CategoryName:        uc.categoryName(ctx, doc.CategoryID),
			Confidence:          doc.Confidence,
			Reasoning:           doc.Reasoning,
			SuggestedCategories: doc.SuggestedCategories,
			KeyEntities:         doc.KeyEntities,
			Summary:             doc.Summary,
		}
	}
	return status, nil
}

func (uc *DocumentReadUseCase) Stats(ctx context.Context, userID string) (*domain.DocumentStats, error) {
	byStatus, err := uc.repo.CountsByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byCategory, err := uc.repo.CountsByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	recent, err := uc.repo.RecentUploads(ctx, userID, uc.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent uploads: %w", err)
	}
	avgConfidence, err := uc.repo.AverageConfidence(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("average confidence: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	return &domain.DocumentStats{
		TotalDocuments:    total,
		ByCategory:        byCategory,
		ByStatus:          byStatus,
		RecentUploads:     recent,
		AverageConfidence: avgConfidence,
	}, nil
}

func (uc *DocumentReadUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.GetAll(ctx)
}

func (uc *DocumentReadUseCase) categoryName(ctx context.Context, categoryID string) string {
	if categoryID == "" {
		return ""
	}
	all, err := uc.categories.GetAll(ctx)
	if err != nil {
		return ""
	}
	for _, c := range all {
		if c.ID == categoryID {
			return c.Name
		}
	}
	return ""
}

func progressFor(status domain.DocumentStatus) float64 {
	switch status {
	case domain.StatusProcessing:
		return 0.5
	case domain.StatusCompleted:
		return 1.0
	default:
		return 0.0
	}
}

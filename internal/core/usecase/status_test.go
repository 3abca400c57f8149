package usecase

import (
	"context"
	"testing"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// Progress values are a coarse stage mapping for UX, not a measured
// percentage; the exact numbers are part of the status contract.
func TestStatusProgressMapping(t *testing.T) {
	cases := []struct {
		status   domain.DocumentStatus
		progress float64
	}{
		{domain.StatusPending, 0.0},
		{domain.StatusProcessing, 0.5},
		{domain.StatusCompleted, 1.0},
		{domain.StatusFailed, 0.0},
	}

	for _, tc := range cases {
		repo := newRepoFake()
		repo.docs["doc-1"] = &domain.Document{ID: "doc-1", UserID: "user-1", Status: tc.status}
		uc := NewDocumentReadUseCase(repo, &categoryRepoFake{})

		got, err := uc.Status(context.Background(), "user-1", "doc-1")
		if err != nil {
			t.Fatalf("Status(%s) error = %v", tc.status, err)
		}
		if got.Progress != tc.progress {
			t.Fatalf("status %s: expected progress %f, got %f", tc.status, tc.progress, got.Progress)
		}
	}
}

func TestStatusIncludesClassificationWhenCompleted(t *testing.T) {
	repo := newRepoFake()
	repo.docs["doc-1"] = &domain.Document{
		ID:         "doc-1",
		UserID:     "user-1",
		Status:     domain.StatusCompleted,
		CategoryID: "cat-1",
		Confidence: 0.92,
		Summary:    "an operating agreement",
	}
	categories := &categoryRepoFake{categories: []domain.Category{{ID: "cat-1", Name: "Formation"}}}
	uc := NewDocumentReadUseCase(repo, categories)

	got, err := uc.Status(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if got.Classification == nil {
		t.Fatalf("expected classification payload")
	}
	if got.Classification.CategoryName != "Formation" {
		t.Fatalf("expected category name Formation, got %q", got.Classification.CategoryName)
	}
	if got.Classification.Confidence != 0.92 {
		t.Fatalf("expected confidence 0.92, got %f", got.Classification.Confidence)
	}
}

func TestStatusOmitsClassificationWhenFailed(t *testing.T) {
	repo := newRepoFake()
	repo.docs["doc-1"] = &domain.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: domain.StatusFailed,
		Error:  "extract text: corrupt pdf",
	}
	uc := NewDocumentReadUseCase(repo, &categoryRepoFake{})

	got, err := uc.Status(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if got.Classification != nil {
		t.Fatalf("expected no classification on failure, got %+v", got.Classification)
	}
	if got.Error == "" {
		t.Fatalf("expected error message in status")
	}
}

func TestStatusNotFoundForForeignDocument(t *testing.T) {
	repo := newRepoFake()
	repo.docs["doc-1"] = &domain.Document{ID: "doc-1", UserID: "someone-else", Status: domain.StatusCompleted}
	uc := NewDocumentReadUseCase(repo, &categoryRepoFake{})

	_, err := uc.Status(context.Background(), "user-1", "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestStatsAggregates(t *testing.T) {
	repo := newRepoFake()
	repo.countsByStatus = map[string]int{"completed": 3, "failed": 1}
	repo.countsByCategory = map[string]int{"Formation": 2}
	avg := 0.8
	repo.avgConfidence = &avg
	uc := NewDocumentReadUseCase(repo, &categoryRepoFake{})

	stats, err := uc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalDocuments != 4 {
		t.Fatalf("expected 4 total documents, got %d", stats.TotalDocuments)
	}
	if stats.AverageConfidence == nil || *stats.AverageConfidence != 0.8 {
		t.Fatalf("unexpected average confidence: %v", stats.AverageConfidence)
	}
}

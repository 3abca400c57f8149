package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

const noDocumentsResponse = "No documents found to query. Please upload and process documents first."

// QueryUseCase answers a natural-language question against the requester's
// classified corpus. Both caps are backpressure against unbounded prompt
// growth: at most maxDocuments completed documents, at most contextChars
// characters of each one's text.
type QueryUseCase struct {
	repo       ports.DocumentRepository
	categories ports.CategoryRepository
	oracle     ports.QueryOracle

	maxDocuments int
	contextChars int
}

func NewQueryUseCase(
	repo ports.DocumentRepository,
	categories ports.CategoryRepository,
	oracle ports.QueryOracle,
	maxDocuments, contextChars int,
) *QueryUseCase {
	if maxDocuments <= 0 {
		maxDocuments = 5
	}
	if contextChars <= 0 {
		contextChars = 2000
	}
	return &QueryUseCase{
		repo:         repo,
		categories:   categories,
		oracle:       oracle,
		maxDocuments: maxDocuments,
		contextChars: contextChars,
	}
}

func (uc *QueryUseCase) AnswerQuestion(
	ctx context.Context,
	userID, question string,
	documentIDs, categoryIDs []string,
) (*domain.QueryResult, error) {
	docs, err := uc.repo.ListCompleted(ctx, userID, documentIDs, categoryIDs, uc.maxDocuments)
	if err != nil {
		return nil, fmt.Errorf("list completed documents: %w", err)
	}

	if len(docs) == 0 {
		return &domain.QueryResult{
			Query:      question,
			Response:   noDocumentsResponse,
			Confidence: 0.0,
			Reasoning:  "No documents available for analysis",
			Sources:    []domain.SourceDocument{},
		}, nil
	}

	contexts := make([]string, 0, len(docs))
	sources := make([]domain.SourceDocument, 0, len(docs))
	categoryNames := uc.categoryNames(ctx)

	for _, doc := range docs {
		text := doc.ExtractedText
		if runes := []rune(text); len(runes) > uc.contextChars {
			text = string(runes[:uc.contextChars])
		}
		contexts = append(contexts, text)

		categoryName := categoryNames[doc.CategoryID]
		if categoryName == "" {
			categoryName = "Uncategorized"
		}
		sources = append(sources, domain.SourceDocument{
			ID:       doc.ID,
			Filename: doc.Filename,
			Category: categoryName,
		})
	}

	answer, err := uc.oracle.Answer(ctx, question, contexts)
	if err != nil {
		return nil, fmt.Errorf("query oracle: %w", err)
	}

	response := strings.TrimSpace(answer.Answer)
	if response == "" {
		response = "No response generated"
	}
	suggestions := answer.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &domain.QueryResult{
		Query:       question,
		Response:    response,
		Confidence:  answer.Confidence,
		Reasoning:   answer.Reasoning,
		Suggestions: suggestions,
		Sources:     sources,
	}, nil
}

func (uc *QueryUseCase) categoryNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	all, err := uc.categories.GetAll(ctx)
	if err != nil {
		return names
	}
	for _, c := range all {
		names[c.ID] = c.Name
	}
	return names
}

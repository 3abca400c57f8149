package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

type statusCall struct {
	op      string
	id      string
	message string
}

type repoFake struct {
	docs map[string]*domain.Document

	createErr   error
	claimErr    error
	completeErr error
	failErr     error
	listErr     error

	created     []domain.Document
	calls       []statusCall
	claimed     map[string]bool
	completed   map[string]domain.Classification
	completedAt map[string]time.Time
	deleted     []string

	completedDocs []domain.Document

	countsByStatus   map[string]int
	countsByCategory map[string]int
	recent           []domain.Document
	avgConfidence    *float64
}

func newRepoFake() *repoFake {
	return &repoFake{
		docs:      map[string]*domain.Document{},
		claimed:   map[string]bool{},
		completed: map[string]domain.Classification{},
	}
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = append(f.created, copyDoc)
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *repoFake) GetOwned(ctx context.Context, userID, id string) (*domain.Document, error) {
	doc, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	return doc, nil
}

func (f *repoFake) ClaimPending(_ context.Context, id string) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return false, nil
	}
	if doc.Status != domain.StatusPending {
		return false, nil
	}
	doc.Status = domain.StatusProcessing
	f.claimed[id] = true
	f.calls = append(f.calls, statusCall{op: "claim", id: id})
	return true, nil
}

func (f *repoFake) CompleteProcessing(_ context.Context, id, text, categoryID string, cls domain.Classification, processedAt time.Time) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	doc, ok := f.docs[id]
	if !ok || doc.Status != domain.StatusProcessing {
		return domain.WrapError(domain.ErrStateConflict, "complete processing", errors.New(id))
	}
	doc.Status = domain.StatusCompleted
	doc.ExtractedText = text
	doc.CategoryID = categoryID
	doc.Confidence = cls.Confidence
	doc.Reasoning = cls.Reasoning
	doc.SuggestedCategories = cls.SuggestedCategories
	doc.KeyEntities = cls.KeyEntities
	doc.Summary = cls.Summary
	f.completed[id] = cls
	if f.completedAt == nil {
		f.completedAt = map[string]time.Time{}
	}
	f.completedAt[id] = processedAt
	f.calls = append(f.calls, statusCall{op: "complete", id: id})
	return nil
}

func (f *repoFake) FailProcessing(ctx context.Context, id, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.failErr != nil {
		return f.failErr
	}
	doc, ok := f.docs[id]
	if !ok || doc.Status != domain.StatusProcessing {
		return domain.WrapError(domain.ErrStateConflict, "fail processing", errors.New(id))
	}
	doc.Status = domain.StatusFailed
	doc.Error = message
	f.calls = append(f.calls, statusCall{op: "fail", id: id, message: message})
	return nil
}

func (f *repoFake) List(context.Context, string, domain.DocumentStatus, string, int, int) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *repoFake) ListCompleted(_ context.Context, _ string, _, _ []string, limit int) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	docs := f.completedDocs
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (f *repoFake) Delete(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

func (f *repoFake) CountsByStatus(context.Context, string) (map[string]int, error) {
	return f.countsByStatus, nil
}

func (f *repoFake) CountsByCategory(context.Context, string) (map[string]int, error) {
	return f.countsByCategory, nil
}

func (f *repoFake) RecentUploads(context.Context, string, int) ([]domain.Document, error) {
	return f.recent, nil
}

func (f *repoFake) AverageConfidence(context.Context, string) (*float64, error) {
	return f.avgConfidence, nil
}

type categoryRepoFake struct {
	categories []domain.Category
	getAllErr  error
}

func (f *categoryRepoFake) GetAll(context.Context) ([]domain.Category, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	return f.categories, nil
}

func (f *categoryRepoFake) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for i := range f.categories {
		if f.categories[i].Name == name {
			return &f.categories[i], nil
		}
	}
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get category", errors.New(name))
}

func (f *categoryRepoFake) Seed(context.Context, []domain.Category) error { return nil }

type chunkRepoFake struct {
	inserted []domain.Chunk
	err      error
}

func (f *chunkRepoFake) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, chunks...)
	return nil
}

type storageFake struct {
	saved   map[string]string
	saveErr error
	deleted []string
	delErr  error
}

func newStorageFake() *storageFake {
	return &storageFake{saved: map[string]string{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.saved, key)
	return nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishProcessDocument(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeProcessDocument(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type extractorFake struct {
	text        string
	err         error
	waitForDone bool
}

func (f *extractorFake) Extract(ctx context.Context, _, _ string) (string, error) {
	if f.waitForDone {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type classifierFake struct {
	cls   domain.Classification
	err   error
	calls int
}

func (f *classifierFake) Classify(context.Context, string, string) (domain.Classification, error) {
	f.calls++
	if f.err != nil {
		return domain.Classification{}, f.err
	}
	return f.cls, nil
}

type chunkerFake struct {
	chunks []domain.Chunk
}

func (f *chunkerFake) Split(string) []domain.Chunk { return f.chunks }

type queryOracleFake struct {
	answer domain.OracleAnswer
	err    error
	calls  int

	lastQuestion string
	lastContexts []string
}

func (f *queryOracleFake) Answer(_ context.Context, question string, contexts []string) (domain.OracleAnswer, error) {
	f.calls++
	f.lastQuestion = question
	f.lastContexts = contexts
	if f.err != nil {
		return domain.OracleAnswer{}, f.err
	}
	return f.answer, nil
}

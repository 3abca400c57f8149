package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/akramarenko/legaldocs-ai/internal/config"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
	"github.com/akramarenko/legaldocs-ai/internal/core/usecase"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/chunking"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/extractor"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/llm/ollama"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/queue/nats"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/repository/postgres"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/resilience"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/storage/localfs"
	"github.com/akramarenko/legaldocs-ai/internal/seed"
)

type App struct {
	Config config.Config

	Queue ports.JobQueue
	Repo  ports.DocumentRepository

	Ingestor  ports.DocumentIngestor
	Processor ports.DocumentProcessor
	Reader    ports.DocumentReader
	Query     ports.DocumentQueryService
	Remover   ports.DocumentRemover

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	categoryRepo := postgres.NewCategoryRepository(db)
	chunkRepo := postgres.NewChunkRepository(db)

	builtin, err := seed.Categories()
	if err != nil {
		return nil, fmt.Errorf("load built-in categories: %w", err)
	}
	if err := categoryRepo.Seed(ctx, builtin); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	categoryNames, err := seed.CategoryNames()
	if err != nil {
		return nil, fmt.Errorf("load category names: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init job queue: %w", err)
	}

	// Oracle calls get the breaker but no in-call retries. Failed jobs are
	// retried through the queue, so retrying inside an attempt would stack.
	oracleExecutor := resilience.NewExecutor(resilience.SingleAttemptConfig())
	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, ollama.WithResilienceExecutor(oracleExecutor))
	classifier := ollama.NewClassifier(ollamaClient, categoryNames, cfg.ClassifyMaxInputChars)
	queryOracle := ollama.NewQueryGenerator(ollamaClient)

	chunker, err := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("init chunker: %w", err)
	}
	textExtractor := extractor.New(storage)

	validator := usecase.NewFileValidator(cfg.MaxFileSizeBytes, cfg.AllowedMimeTypes)
	ingestUC := usecase.NewIngestDocumentUseCase(validator, repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(
		repo, categoryRepo, chunkRepo,
		textExtractor, classifier, chunker,
		time.Duration(cfg.ExtractTimeoutSeconds)*time.Second,
		time.Duration(cfg.OracleTimeoutSeconds)*time.Second,
	)
	readUC := usecase.NewDocumentReadUseCase(repo, categoryRepo)
	queryUC := usecase.NewQueryUseCase(repo, categoryRepo, queryOracle, cfg.QueryMaxDocuments, cfg.QueryContextChars)
	deleteUC := usecase.NewDeleteDocumentUseCase(repo, storage)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		Ingestor:  ingestUC,
		Processor: processUC,
		Reader:    readUC,
		Query:     queryUC,
		Remover:   deleteUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

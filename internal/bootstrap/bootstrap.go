package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/lokeshch/document-assistant/internal/config"
	"github.com/lokeshch/document-assistant/internal/core/ports"
	"github.com/lokeshch/document-assistant/internal/core/usecase"
	"github.com/lokeshch/document-assistant/internal/infrastructure/cache"
	"github.com/lokeshch/document-assistant/internal/infrastructure/chunking"
	"github.com/lokeshch/document-assistant/internal/infrastructure/extractor/doctext"
	"github.com/lokeshch/document-assistant/internal/infrastructure/llm/gemini"
	"github.com/lokeshch/document-assistant/internal/infrastructure/queue/nats"
	"github.com/lokeshch/document-assistant/internal/infrastructure/repository/postgres"
	"github.com/lokeshch/document-assistant/internal/infrastructure/resilience"
	"github.com/lokeshch/document-assistant/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.DocumentQueryService

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

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	keyPool, err := gemini.NewCredentialPool([]string{cfg.GeminiAPIKey, cfg.GeminiBackupAPIKey}, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("init gemini credentials: %w", err)
	}
	summarizerClient := gemini.New(cfg.GeminiBaseURL, cfg.GeminiModel, keyPool, executor)

	chunker, err := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("init chunker: %w", err)
	}
	extractor := doctext.NewExtractor(storage)
	summarizer := usecase.NewIterativeSummarizer(summarizerClient, cfg.SummaryChunkTokens, cfg.SummaryCombineTokens)
	sessions := cache.NewSessionCache(time.Duration(cfg.SessionTTLMinutes)*time.Minute, cfg.SessionCapacity)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, extractor, chunker, summarizer)
	queryUC := usecase.NewQueryUseCase(repo, summarizerClient, sessions, cfg.QueryTopChunks)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,

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

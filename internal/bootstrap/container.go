package bootstrap

import (
	"context"
	"fmt"
	"io"

	"venture-ai-be/internal/config"
	"venture-ai-be/internal/controller"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/contract"
	"venture-ai-be/internal/repository/firestoredb"
	"venture-ai-be/internal/repository/memory"
	"venture-ai-be/internal/repository/redisstore"
	"venture-ai-be/internal/repository/unitofwork"
	"venture-ai-be/internal/service"
	"venture-ai-be/pkg/ai/pipeline"
	"venture-ai-be/pkg/ai/session"
	"venture-ai-be/pkg/ai/stage"
	"venture-ai-be/pkg/artifact"
	"venture-ai-be/pkg/content"
	"venture-ai-be/pkg/database"
	"venture-ai-be/pkg/events"
	"venture-ai-be/pkg/llm/factory"
	pktNats "venture-ai-be/pkg/nats"
	"venture-ai-be/pkg/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger  logger.ILogger
	Metrics *metrics.Metrics

	// Controllers
	SessionController  controller.ISessionController
	AnalysisController controller.IAnalysisController
	JobController      controller.IJobController

	// Services, also used directly by the CLI
	AnalysisService service.IAnalysisService
	SessionService  service.ISessionService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	NatsSubscriber  *pktNats.Subscriber

	closers []io.Closer
}

// Options tune how the container is assembled.
type Options struct {
	// Registerer receives the pipeline collectors; nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// SkipEvents leaves NATS unconnected, for one-shot CLI runs.
	SkipEvents bool
	// LocalFiles lets content refs point at the host filesystem. CLI only.
	LocalFiles bool
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func NewContainer(ctx context.Context, cfg *config.Config, log logger.ILogger, opts Options) (*Container, error) {
	c := &Container{Logger: log}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := metrics.New(reg)
	c.Metrics = m

	// 1. Stores
	uowFactory, err := c.newAnalysisStore(cfg, log)
	if err != nil {
		return nil, err
	}
	sessionRepo, err := c.newSessionStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	artifacts, err := c.newArtifactStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	// 2. Model providers
	llmProvider, err := factory.NewLLMProvider(ctx, factory.ProviderConfig{
		Provider:       cfg.Ai.LLMProvider,
		Model:          cfg.Ai.LLMModel,
		OllamaBaseURL:  cfg.Ai.OllamaBaseURL,
		GeminiAPIKey:   cfg.Ai.GeminiAPIKey,
		HuggingFaceKey: cfg.Ai.HuggingFaceKey,
		HuggingFaceURL: cfg.Ai.HuggingFaceURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 3. Pipeline
	sessions := session.NewManager(sessionRepo, log)
	searcher := search.NewSearxngClient(cfg.Search.SearxngURLs, cfg.Search.CacheTTL)

	var fetchOpts []content.Option
	if opts.LocalFiles {
		fetchOpts = append(fetchOpts, content.WithLocalFiles())
	}

	synthesisModel := cfg.Ai.SynthesisModel
	sequencer := pipeline.NewSequencer(
		content.NewRefFetcher(cfg.Pipeline.ContentMaxBytes, fetchOpts...),
		pipeline.Stages{
			Extractor: stage.NewExtractor(llmProvider, "", log),
			Verifier: stage.NewVerifier(searcher, llmProvider, "", stage.VerifierConfig{
				StageTimeout:  cfg.Pipeline.VerificationTimeout,
				LookupTimeout: cfg.Pipeline.LookupTimeout,
				Concurrency:   cfg.Pipeline.VerificationConcurrency,
			}, log, m),
			Synthesizer: stage.NewSynthesizer(llmProvider, synthesisModel, log),
		},
		artifacts,
		uowFactory,
		sessions,
		log,
		m,
	)

	// 4. Event bus
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" && !opts.SkipEvents {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, log)
		if err != nil {
			log.Warn("BOOTSTRAP", "NATS publisher unavailable, events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, closerFunc(func() error { natsPub.Close(); return nil }))
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
		if err != nil {
			log.Warn("BOOTSTRAP", "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			c.NatsSubscriber = natsSub
			c.closers = append(c.closers, closerFunc(func() error { natsSub.Close(); return nil }))
		}
	}

	// 5. Services
	analysisService := service.NewAnalysisService(
		sequencer,
		stage.NewAnswerer(llmProvider, "", log),
		stage.NewFollowupGenerator(llmProvider, "", log),
		uowFactory,
		sessions,
		publisher,
		log,
		m,
	)
	sessionService := service.NewSessionService(sessions)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	c.closers = append(c.closers, pubSub)
	jobs := memory.NewJobRepository(cfg.Session.TTL)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Pipeline.JobTopic,
		jobs,
		analysisService,
		publisher,
		cfg.Pipeline.PipelineTimeout,
		log,
		m,
	)
	jobService := service.NewJobService(jobs, service.NewPublisherService(pubSub, cfg.Pipeline.JobTopic), log)

	// 6. Controllers
	c.SessionController = controller.NewSessionController(sessionService)
	c.AnalysisController = controller.NewAnalysisController(analysisService)
	c.JobController = controller.NewJobController(jobService)
	c.AnalysisService = analysisService
	c.SessionService = sessionService
	c.ConsumerService = consumerService

	return c, nil
}

func (c *Container) newAnalysisStore(cfg *config.Config, log logger.ILogger) (unitofwork.RepositoryFactory, error) {
	if cfg.Database.AnalysisBackend == "memory" {
		log.Warn("BOOTSTRAP", "Using in-memory analysis store; analyses are lost on restart", nil)
		return memory.NewRepositoryFactory(), nil
	}
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is required for the postgres analysis store")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		c.closers = append(c.closers, sqlDB)
	}
	return unitofwork.NewRepositoryFactory(db), nil
}

func (c *Container) newSessionStore(ctx context.Context, cfg *config.Config, log logger.ILogger) (contract.SessionRepository, error) {
	switch cfg.Session.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("BOOTSTRAP", "Redis is not reachable yet", map[string]interface{}{"error": err.Error()})
		}
		c.closers = append(c.closers, rdb)
		return redisstore.NewSessionRepository(rdb, cfg.Session.TTL), nil

	case "firestore":
		repo, err := firestoredb.NewSessionRepository(ctx, cfg.Session.FirestoreProject, cfg.Session.FirestoreDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to open firestore session store: %w", err)
		}
		c.closers = append(c.closers, repo)
		return repo, nil

	case "memory", "":
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	}
	return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
}

func (c *Container) newArtifactStore(ctx context.Context, cfg *config.Config, log logger.ILogger) (artifact.Store, error) {
	switch cfg.Artifact.Backend {
	case "gcs":
		if cfg.Artifact.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET_NAME is required for the gcs artifact store")
		}
		store, err := artifact.NewGCSStore(ctx, cfg.Artifact.GCSBucket)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store)
		return store, nil
	case "local", "":
		log.Info("BOOTSTRAP", "Writing memos to local disk", map[string]interface{}{"dir": cfg.Artifact.Dir})
		return artifact.NewLocalStore(cfg.Artifact.Dir, cfg.App.BaseURL), nil
	}
	return nil, fmt.Errorf("unsupported artifact backend: %s", cfg.Artifact.Backend)
}

// Close releases every connection the container opened, newest first.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

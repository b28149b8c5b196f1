package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"leadchat_backend/internal/conversation"
	"leadchat_backend/internal/conversation/persona"
	"leadchat_backend/internal/emailcheck"
	apphttp "leadchat_backend/internal/http"
	"leadchat_backend/internal/http/router"
	"leadchat_backend/internal/leads"
	"leadchat_backend/internal/leads/extract"
	"leadchat_backend/internal/ledger"
	"leadchat_backend/internal/scheduler"
	"leadchat_backend/internal/session"
	"leadchat_backend/platform/ai/chatapi"
	"leadchat_backend/platform/config"
	"leadchat_backend/platform/db"
	"leadchat_backend/platform/events"
	"leadchat_backend/platform/logger"
	"leadchat_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.DatabaseURL == "" {
		panic("DATABASE_URL is required")
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.Migrate(cfg.DatabaseURL, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	bus := events.NewInMemoryBus(log)

	followUpClient, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	val := validator.New()
	store := session.NewStore()

	engine := chatapi.NewClient(chatapi.Config{
		BaseURL:            cfg.GetAIBaseURL(),
		APIKey:             cfg.GetAIAPIKey(),
		ChatModel:          cfg.GetChatModel(),
		VisionModel:        cfg.GetVisionModel(),
		TranscriptionModel: cfg.GetTranscriptionModel(),
		SpeechModel:        cfg.GetSpeechModel(),
	})

	var verifier emailcheck.Verifier
	if cfg.IsVerifierEnabled() {
		verifier = emailcheck.NewHTTPVerifier(cfg.GetVerifierBaseURL(), cfg.GetVerifierAPIKey())
	} else {
		log.Warn("VERIFIER_API_KEY not configured; email deliverability checks disabled")
	}
	pipeline := emailcheck.NewPipeline(verifier, log)

	salesPersona, err := persona.Load(cfg.GetPersonaPath())
	if err != nil {
		log.Error("failed to load persona", "error", err)
		panic("failed to load persona: " + err.Error())
	}

	var extractor leads.Extractor
	if cfg.IsExtractionEnabled() {
		geminiExtractor, err := extract.NewGeminiExtractor(ctx, cfg.GetGeminiAPIKey(), cfg.GetExtractionModel())
		if err != nil {
			log.Error("failed to initialize lead extractor", "error", err)
			panic("failed to initialize lead extractor: " + err.Error())
		}
		extractor = geminiExtractor
	} else {
		log.Warn("GEMINI_API_KEY not configured; lead extraction disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	ledgerModule := ledger.NewModule(pool, val, log)

	var followUpSched scheduler.FollowUpScheduler
	if followUpClient != nil {
		followUpSched = followUpClient
	}
	processor := leads.NewProcessor(store, extractor, ledgerModule.Ledger(),
		followUpSched, cfg.GetFollowUpDelay(), log)

	// Lead processing runs off the request path after each completed turn.
	bus.Subscribe(conversation.EventLeadActivity, func(ctx context.Context, ev events.Event) error {
		sessionKey, ok := ev.Payload.(string)
		if !ok {
			return nil
		}
		processor.Process(ctx, sessionKey)
		return nil
	})

	chatService := conversation.NewService(store, engine, pipeline, salesPersona, bus, log)
	conversationModule := conversation.NewModule(chatService, conversation.NewHandler(chatService, log))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			conversationModule,
			ledgerModule,
		},
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(app),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Let in-flight lead processing finish before exit.
		bus.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up emails disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

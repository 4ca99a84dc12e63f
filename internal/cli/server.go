package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fanquiz-service/internal/app"
	"fanquiz-service/internal/config"
	"fanquiz-service/internal/domain"
	"fanquiz-service/internal/infra/memory"
	pgstore "fanquiz-service/internal/infra/postgres"
	redisinfra "fanquiz-service/internal/infra/redis"
	"fanquiz-service/internal/lib/logging"
	transport "fanquiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logging.Setup(os.Stdout, slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + finalPort
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var store app.DocumentStore
	if pool != nil {
		store = pgstore.NewDocumentStore(pool)
	} else {
		memStore := memory.NewDocumentStore()
		seedSampleQuiz(memStore)
		store = memStore
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if redisClient != nil {
		store = redisinfra.NewDocumentCache(redisClient, store, quizTTL)
	} else {
		store = memory.NewDocumentCache(store, quizTTL)
	}

	var ledger app.CompletionLedger
	if redisClient != nil {
		ledger = redisinfra.NewLedger(redisClient)
	} else {
		ledger = memory.NewLedger()
	}

	sessions := app.NewSessionService(store, ledger)
	wsHandler := transport.NewWSHandler(sessions)
	apiHandler := transport.NewHandler(store, baseURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting fanquiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedSampleQuiz gives the in-memory store one takeable quiz so the service
// is usable without Postgres.
func seedSampleQuiz(store *memory.DocumentStore) {
	store.Seed("quiz-1", domain.Quiz{
		Title:        "General Knowledge Warmup",
		AllowRetakes: true,
		Questions: []domain.Question{
			{
				QuestionText:  "What is 2 + 2?",
				Options:       []string{"3", "4", "5", "22"},
				CorrectAnswer: 1,
			},
			{
				QuestionText:  "Which planet is known as the Red Planet?",
				Options:       []string{"Venus", "Jupiter", "Mars", "Saturn"},
				CorrectAnswer: 2,
			},
		},
	})
}

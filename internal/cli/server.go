package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"kidquiz-engine/internal/app"
	"kidquiz-engine/internal/config"
	"kidquiz-engine/internal/domain"
	"kidquiz-engine/internal/engine"
	"kidquiz-engine/internal/infra/memory"
	pgstore "kidquiz-engine/internal/infra/postgres"
	redisstore "kidquiz-engine/internal/infra/redis"
	transport "kidquiz-engine/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.PackageLoader = memory.NewStaticPackageLoader(samplePackages())
	if pool != nil {
		loader = pgstore.NewPackageLoader(pool)
	}

	packageTTL := config.Duration(cfg.Packages.TTL, 10*time.Minute)
	var packages app.PackageRepository
	if redisClient != nil {
		packages = redisstore.NewPackageRepository(redisClient, loader, packageTTL)
	} else {
		packages = memory.NewPackageRepository(loader, packageTTL)
	}

	var answers app.AnswerStore
	var scores app.ScoreStore
	switch {
	case pool != nil:
		answers = pgstore.NewAnswerStore(pool)
		scores = pgstore.NewScoreStore(pool)
	case redisClient != nil:
		answers = redisstore.NewAnswerStore(redisClient, redisTTL)
		scores = redisstore.NewScoreStore(redisClient)
	default:
		answers = memory.NewAnswerStore()
		scores = memory.NewScoreStore()
	}

	service := app.NewSessionService(packages, answers, scores, engineConfig(cfg))
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz session engine on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func engineConfig(cfg config.Config) engine.Config {
	return engine.Config{
		CorrectDelay:       config.Duration(cfg.Session.CorrectDelay, engine.DefaultCorrectDelay),
		WrongDelay:         config.Duration(cfg.Session.WrongDelay, engine.DefaultWrongDelay),
		CelebrationTime:    config.Duration(cfg.Session.CelebrationTime, engine.DefaultCelebrationTime),
		SummaryAutoClose:   config.Duration(cfg.Session.SummaryAutoClose, engine.DefaultSummaryAutoClose),
		DisableCelebration: !cfg.CelebrationEnabled(),
	}
}

// samplePackages provides a minimal set of package data; swap this loader
// with the Postgres-backed one in production.
func samplePackages() map[string]domain.PackageQuestions {
	return map[string]domain.PackageQuestions{
		"pkg-1": {
			Package: domain.Package{ID: "pkg-1", Name: "Math basics", Order: domain.OrderSequential},
			Questions: []domain.Question{
				{
					ID:           "q1",
					Prompt:       "What is 2 + 2?",
					Points:       1,
					TimeLimitSec: 15,
					PackageID:    "pkg-1",
					Options: []domain.Option{
						{ID: "o1", Text: "3", Correct: false},
						{ID: "o2", Text: "4", Correct: true},
						{ID: "o3", Text: "5", Correct: false},
					},
				},
				{
					ID:           "q2",
					Prompt:       "What is 3 x 3?",
					Points:       2,
					TimeLimitSec: 15,
					PackageID:    "pkg-1",
					Options: []domain.Option{
						{ID: "o1", Text: "6", Correct: false},
						{ID: "o2", Text: "9", Correct: true},
						{ID: "o3", Text: "12", Correct: false},
					},
				},
			},
		},
	}
}

package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ethmumbai-maxi/internal/app"
	"ethmumbai-maxi/internal/card"
	"ethmumbai-maxi/internal/config"
	"ethmumbai-maxi/internal/infra/memory"
	pgloader "ethmumbai-maxi/internal/infra/postgres"
	redisstore "ethmumbai-maxi/internal/infra/redis"
	"ethmumbai-maxi/internal/infra/sqlite"
	"ethmumbai-maxi/internal/infra/twitter"
	"ethmumbai-maxi/internal/llm"
	"ethmumbai-maxi/internal/logger"
	"ethmumbai-maxi/internal/profile"
	"ethmumbai-maxi/internal/quiz"
	"ethmumbai-maxi/internal/synthesis"
	transport "ethmumbai-maxi/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
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
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
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
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(quiz.DefaultBank())
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}
	bankID := cfg.Quiz.BankID
	if bankID == "" {
		bankID = quiz.DefaultBankID
	}
	bank, err := banks.GetBank(ctx, bankID)
	if err != nil {
		return err
	}

	store, closeStore, err := newSnapshotStore(cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, err := llm.NewProvider(ctx, llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}, log)
	if err != nil {
		// synthesis degrades to the fixed fallbacks
		log.Warn("llm provider unavailable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		provider = nil
	}
	synth := synthesis.NewClient(provider,
		synthesis.WithScale(quiz.MaxScore(bank)),
		synthesis.WithTimeout(config.TTLDuration(cfg.LLM.Timeout, 20*time.Second)),
		synthesis.WithLogger(log),
	)

	publicURL := cfg.Server.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:" + finalPort
	}
	proxyBase := cfg.Lookup.ProxyBaseURL
	if proxyBase == "" {
		proxyBase = publicURL
	}
	lookupTimeout := config.TTLDuration(cfg.Lookup.Timeout, 5*time.Second)
	httpClient := &http.Client{Timeout: lookupTimeout}
	lookup := profile.NewService(log, lookupTimeout,
		&profile.ProxyTier{BaseURL: proxyBase, Client: httpClient},
		&profile.OEmbedTier{Endpoint: cfg.Lookup.OEmbedURL, Client: httpClient},
	)

	exporter := card.NewExporter(&card.PNGRasterizer{Client: httpClient},
		card.WithOptions(card.Options{
			Background:  cfg.Card.Background,
			Scale:       cfg.Card.Scale,
			CrossOrigin: *cfg.Card.CrossOrigin,
		}),
		card.WithSettleTimeout(config.TTLDuration(cfg.Card.SettleTimeout, 2500*time.Millisecond)),
		card.WithExportLogger(log),
	)

	bg, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	manager := app.NewManager(bg, banks, bankID, app.Deps{
		Store:    store,
		Lookup:   lookup,
		Synth:    synth,
		Exporter: exporter,
		Policy: app.Policy{
			RequireProfile:      cfg.Policy.RequireProfile,
			ClearProfileOnReset: cfg.Policy.ClearProfileOnReset,
		},
		Log: log,
	})

	users := twitter.NewClient(cfg.Twitter.APIBaseURL, cfg.Twitter.BearerToken, httpClient)
	router := transport.NewRouter(
		transport.NewWSHandler(manager, log),
		transport.NewAPIHandler(manager, banks, bankID, log),
		transport.NewTwitterHandler(users, log),
	)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: websocket connections are long lived
	}

	go func() {
		log.Info("starting quiz service", zap.String("addr", server.Addr), zap.String("bank", bankID))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	stopBackground()
	manager.Wait()
	return err
}

// newSnapshotStore picks Redis when configured, then SQLite, then memory.
func newSnapshotStore(cfg config.Config, client *redis.Client) (app.SnapshotStore, func(), error) {
	switch {
	case client != nil:
		ttl := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)
		return redisstore.NewSnapshotStore(client, ttl), func() {}, nil
	case strings.TrimSpace(cfg.SQLite.Path) != "":
		s, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return memory.NewSnapshotStore(), func() {}, nil
	}
}

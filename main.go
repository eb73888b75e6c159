package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/drujensen/wearables/internal/api"
	"github.com/drujensen/wearables/internal/api/websocket"
	"github.com/drujensen/wearables/internal/domain/interfaces"
	"github.com/drujensen/wearables/internal/domain/services"
	"github.com/drujensen/wearables/internal/impl/config"
	"github.com/drujensen/wearables/internal/impl/database"
	"github.com/drujensen/wearables/internal/impl/integrations"
	repositoriesMemory "github.com/drujensen/wearables/internal/impl/repositories/memory"
	repositoriesMongo "github.com/drujensen/wearables/internal/impl/repositories/mongo"
	repositoriesSqlite "github.com/drujensen/wearables/internal/impl/repositories/sqlite"
	"github.com/drujensen/wearables/internal/impl/tools"
	"github.com/drujensen/wearables/internal/tui"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	version = "unknown" // This should be set during build with -ldflags="-X main.version=1.0.0"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version)
		os.Exit(0)
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wearables [serve|console] [--storage=type] [--config=path]\n")
		flag.PrintDefaults()
	}

	storage := flag.String("storage", "", "Channel storage: memory or mongo (overrides STORAGE)")
	configPath := flag.String("config", "", "Path to a YAML config file (default wearables.yaml if present)")

	// Default mode is "console"
	mode := "console"
	if len(os.Args) > 1 && slices.Contains([]string{"serve", "console"}, os.Args[1]) {
		mode = os.Args[1]
		os.Args = slices.Delete(os.Args, 1, 2)
	}

	flag.Parse()

	cfg, err := config.Load(*configPath, config.BootstrapLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *storage != "" {
		cfg.Storage = *storage
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			flag.Usage()
			os.Exit(1)
		}
	}
	if mode == "console" && cfg.LogLevel != "error" {
		// keep the terminal UI readable
		cfg.LogLevel = "warn"
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, mode, cfg, logger); err != nil {
		logger.Fatal("Wearables assistant failed", zap.String("mode", mode), zap.Error(err))
	}
}

func run(ctx context.Context, mode string, cfg *config.Config, logger *zap.Logger) error {
	db, err := database.NewSQLite(cfg.DatabasePath, cfg.DBMaxOpenConns, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	channelRepo, conversationRepo, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	registry, err := tools.NewRegistry(tools.Env{
		Repo:   repositoriesSqlite.NewMetricsRepository(db, logger),
		UserID: cfg.UserID,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	orchestrator := newOrchestrator(ctx, cfg, registry, logger)

	locks := services.NewChannelLocks()
	chatService := services.NewChatService(channelRepo, conversationRepo, orchestrator, locks, logger)
	channelService := services.NewChannelService(channelRepo, conversationRepo, locks, logger)
	if _, err := channelService.EnsureDefaultChannel(ctx); err != nil {
		return fmt.Errorf("failed to create default channel: %w", err)
	}

	if mode == "console" {
		return tui.Run(ctx, chatService, channelService)
	}

	var renderer interfaces.GraphRenderer
	if cfg.GraphRender {
		renderer = integrations.NewMermaidInkRenderer(cfg.MermaidURL, logger)
	}

	return serve(ctx, cfg, api.Services{
		Chat:     chatService,
		Channels: channelService,
		Graph:    services.NewGraphService(orchestrator, renderer, logger),
		Hub:      websocket.NewChannelHub(cfg.CORSOrigins, logger),
	}, logger)
}

// newOrchestrator returns nil when the model cannot be set up; the server
// still starts and reports agent_initialized=false.
func newOrchestrator(ctx context.Context, cfg *config.Config, executor interfaces.ToolExecutor, logger *zap.Logger) services.Orchestrator {
	model, err := integrations.NewAIModelIntegration(ctx, integrations.ModelSettings{
		Provider:    cfg.LLMProvider,
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
	}, logger)
	if err != nil {
		logger.Warn("Agent not initialized", zap.String("provider", cfg.LLMProvider), zap.Error(err))
		return nil
	}

	opts := services.OrchestratorOptions{
		MaxRounds:         cfg.MaxToolRounds,
		TurnTimeout:       cfg.TurnTimeout,
		HistoryTokenLimit: cfg.HistoryTokenLimit,
	}
	if cfg.HistoryTokenLimit > 0 {
		opts.CountTokens = integrations.NewTokenCounter(logger).Count
	}

	orchestrator, err := services.NewOrchestrator(model, executor, opts, logger)
	if err != nil {
		logger.Warn("Agent not initialized", zap.Error(err))
		return nil
	}
	logger.Info("Agent initialized",
		zap.String("provider", model.ProviderType()),
		zap.String("model", model.ModelName()))
	return orchestrator
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (interfaces.ChannelRepository, interfaces.ConversationRepository, func(), error) {
	if cfg.Storage != config.StorageMongo {
		return repositoriesMemory.NewMemoryChannelRepository(), repositoriesMemory.NewMemoryConversationRepository(), func() {}, nil
	}

	db, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	closeFn := func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}
	return repositoriesMongo.NewMongoChannelRepository(db.Collection("channels")),
		repositoriesMongo.NewMongoConversationRepository(db.Collection("conversations")),
		closeFn, nil
}

func serve(ctx context.Context, cfg *config.Config, svc api.Services, logger *zap.Logger) error {
	e := api.NewRouter(svc, api.RouterOptions{
		CORSOrigins:          cfg.CORSOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)
	hubCtx, stopHub := context.WithCancel(gctx)
	defer stopHub()

	g.Go(func() error {
		svc.Hub.Run(hubCtx)
		return nil
	})
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		stopHub()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

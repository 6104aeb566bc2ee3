package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/stylist-agent/internal/adapters/http"
	"github.com/PabloGalante/stylist-agent/internal/adapters/commerce"
	"github.com/PabloGalante/stylist-agent/internal/adapters/llm"
	"github.com/PabloGalante/stylist-agent/internal/adapters/search"
	firestorestore "github.com/PabloGalante/stylist-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/stylist-agent/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/stylist-agent/internal/adapters/storage/redis"
	"github.com/PabloGalante/stylist-agent/internal/app/conversation"
	"github.com/PabloGalante/stylist-agent/internal/config"
	"github.com/PabloGalante/stylist-agent/internal/domain"
	"github.com/PabloGalante/stylist-agent/internal/observability"
)

func main() {
	var (
		configPath string
		port       string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "stylist-api",
		Short:         "Serve the outfit recommendation chat API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			observability.Configure(os.Stdout, cfg.LogLevel)
			return run(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", os.Getenv("STYLIST_CONFIG"), "path to a YAML config file")
	root.Flags().StringVar(&port, "port", "", "HTTP listen port (overrides STYLIST_PORT)")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log := observability.Logger()
		log.Fatal().Err(err).Msg("stylist-api failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := observability.Logger()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// LLM: OpenAI, Vertex or mock
	var llmClient domain.LLMClient
	switch cfg.LLMBackend {
	case config.LLMBackendMock:
		log.Info().Msg("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	case config.LLMBackendVertex:
		log.Info().Str("project", cfg.GCPProjectID).Msg("[LLM] Using Vertex LLM client")
		vc, err := llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			return errors.Wrap(err, "error initializing Vertex LLM client")
		}
		llmClient = vc
	default:
		log.Info().Str("model", cfg.ModelName).Msg("[LLM] Using OpenAI LLM client")
		oc, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName, httpClient)
		if err != nil {
			return errors.Wrap(err, "error initializing OpenAI LLM client")
		}
		llmClient = oc
	}

	// Storage: Redis, Firestore or Memory
	var sessionStore domain.SessionStore
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info().Str("project", cfg.GCPProjectID).Msg("[STORE] Using Firestore storage")
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID, cfg.SessionTTL)
		if err != nil {
			return errors.Wrap(err, "error initializing Firestore store")
		}
		defer fsStore.Close()
		sessionStore = fsStore
	case config.StorageMemory:
		log.Info().Msg("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore(cfg.SessionTTL)
	default:
		log.Info().Str("addr", cfg.RedisAddr()).Msg("[STORE] Using Redis storage")
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr(), DB: cfg.RedisDB})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis not reachable yet")
		}
		sessionStore = redisstore.NewStore(client,
			redisstore.WithTTL(cfg.SessionTTL),
			redisstore.WithPrefix(cfg.RedisPrefix),
		)
	}

	if cfg.CommerceBaseURL == "" {
		log.Warn().Msg("DA_BASE_URL is empty; /init calls will fail")
	}
	if cfg.SearchBaseURL == "" {
		log.Warn().Msg("SCRAPER_BASE_URL is empty; searches will fail")
	}

	svc := conversation.NewService(
		llmClient,
		sessionStore,
		commerce.NewClient(cfg.CommerceBaseURL, httpClient),
		search.NewClient(cfg.SearchBaseURL, httpClient, cfg.SearchLimit),
		conversation.WithMaxTokens(cfg.MaxTokens),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(svc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout * 3,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("stylist API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server listen")
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

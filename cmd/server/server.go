package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokebattle-api/internal/config"
	v1 "github.com/KirkDiggler/pokebattle-api/internal/handlers/http/v1"
	"github.com/KirkDiggler/pokebattle-api/internal/logging"
	"github.com/KirkDiggler/pokebattle-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/pokebattle-api/internal/orchestrators/pokemon"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/clock"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/pokebattle-api/internal/redis"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/apicache"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/battles"
	leaderboardrepo "github.com/KirkDiggler/pokebattle-api/internal/repositories/leaderboard"
	"github.com/KirkDiggler/pokebattle-api/internal/services/leaderboard"
)

const (
	shutdownTimeout  = 30 * time.Second
	redisPingTimeout = 5 * time.Second
	healthService    = "pokebattle.v1.BattleSimulator"
)

var (
	configPath string
	httpPort   int
	grpcPort   int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API and the gRPC health server",
	Long:  `Start the pokebattle HTTP API together with a gRPC health and reflection server for operations.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	serverCmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP port (overrides config)")
	serverCmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "gRPC health port (overrides config)")
}

// stores groups the storage backends selected by configuration
type stores struct {
	cache       apicache.Cache
	battles     battles.Repository
	leaderboard leaderboardrepo.Repository
	close       func()
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if httpPort > 0 {
		cfg.HTTPPort = httpPort
	}
	if grpcPort > 0 {
		cfg.GRPCPort = grpcPort
	}

	logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	handler, err := buildHandler(cfg, st)
	if err != nil {
		return err
	}

	e := v1.NewEcho(handler, cfg.RequestTimeout)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC health server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		slog.Info("HTTP server starting", "addr", addr)
		if err := e.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping")
	case err := <-errChan:
		return err
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}

	return nil
}

// openStores uses Redis when an address is configured and in-memory stores otherwise
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.RedisAddr == "" {
		slog.Info("No redis address configured, using in-memory stores")
		return &stores{
			cache: apicache.NewInMemory(&apicache.InMemoryConfig{
				Size: cfg.Cache.Size,
				TTL:  cfg.Cache.TTL,
			}),
			battles:     battles.NewInMemory(clock.New()),
			leaderboard: leaderboardrepo.NewInMemory(),
			close:       func() {},
		}, nil
	}

	client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := redisclient.Ping(ctx, client, redisPingTimeout); err != nil {
		_ = client.Close() // nolint:errcheck // already failing
		return nil, err
	}

	cache, err := apicache.NewRedis(&apicache.RedisConfig{Client: client, TTL: cfg.Cache.TTL})
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	battleRepo, err := battles.NewRedisRepository(&battles.Config{Client: client, Clock: clock.New()})
	if err != nil {
		return nil, fmt.Errorf("failed to create battle repository: %w", err)
	}
	leaderboardRepo, err := leaderboardrepo.NewRedisRepository(&leaderboardrepo.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard repository: %w", err)
	}

	slog.Info("Using redis stores", "addr", cfg.RedisAddr)
	return &stores{
		cache:       cache,
		battles:     battleRepo,
		leaderboard: leaderboardRepo,
		close: func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close redis client", "error", err)
			}
		},
	}, nil
}

func buildHandler(cfg *config.Config, st *stores) (*v1.Handler, error) {
	pokeClient, err := pokeapi.New(&pokeapi.Config{
		BaseURL:         cfg.PokeAPI.BaseURL,
		UserAgent:       cfg.PokeAPI.UserAgent,
		HTTPTimeout:     cfg.PokeAPI.Timeout,
		MaxRetries:      cfg.PokeAPI.MaxRetries,
		RetryDelay:      cfg.PokeAPI.RetryDelay,
		MoveConcurrency: cfg.PokeAPI.MoveConcurrency,
		Cache:           st.cache,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pokeapi client: %w", err)
	}

	eventBus := events.NewBus()

	leaderboardService, err := leaderboard.NewService(&leaderboard.Config{
		Repository: st.leaderboard,
		EventBus:   eventBus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard service: %w", err)
	}

	pokemonService, err := pokemon.NewOrchestrator(&pokemon.Config{PokeAPIClient: pokeClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create pokemon orchestrator: %w", err)
	}

	battleService, err := battle.NewOrchestrator(&battle.Config{
		PokeAPIClient: pokeClient,
		BattleRepo:    st.battles,
		EventBus:      eventBus,
		IDGenerator:   idgen.NewBattle(),
		Roller:        dice.DefaultRoller,
		Clock:         clock.New(),
		ResultTTL:     cfg.Battle.ResultTTL,
		MaxTurnsLimit: cfg.Battle.MaxTurnsLimit,
		MaxLevel:      cfg.Battle.MaxLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create battle orchestrator: %w", err)
	}

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		PokemonService:     pokemonService,
		BattleService:      battleService,
		LeaderboardService: leaderboardService,
		DefaultLevel:       cfg.Battle.DefaultLevel,
		DefaultMaxTurns:    cfg.Battle.DefaultMaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create http handler: %w", err)
	}

	return handler, nil
}

// logFunc adapts the interceptor logger onto slog. Interceptor levels share
// slog's numeric values.
func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Default().Log(ctx, slog.Level(level), msg, fields...)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/PauGgimenez/Practica4/internal/app"
	"github.com/PauGgimenez/Practica4/internal/clock"
	"github.com/PauGgimenez/Practica4/internal/config"
	"github.com/PauGgimenez/Practica4/internal/metrics"
	"github.com/PauGgimenez/Practica4/internal/outbox"
	"github.com/PauGgimenez/Practica4/internal/storage/postgres"
	transporthttp "github.com/PauGgimenez/Practica4/internal/transport/http"
	"github.com/PauGgimenez/Practica4/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api").Logger()
	loadEnvFile(logger)

	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal().Err(err).Msg("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	m := metrics.New("api")

	orderRepo := postgres.NewOrderRepository(pool)
	orderSvc := app.NewOrderService(orderRepo, clock.NewSystem(),
		app.WithCreatedHook(m.OrdersCreated.Inc))
	catalogRepo := postgres.NewCatalogRepository(pool)
	catalogSvc := app.NewCatalogService(catalogRepo, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/orders", transporthttp.Instrument(m, "orders", transporthttp.HandleCreateOrder(orderSvc)))
	mux.Handle("/orders/", transporthttp.Instrument(m, "order", transporthttp.HandleOrder(orderSvc)))
	mux.Handle("/admin/products", transporthttp.Instrument(m, "products", transporthttp.HandleProducts(catalogSvc)))
	mux.Handle("/admin/products/", transporthttp.Instrument(m, "product", transporthttp.HandleProduct(catalogSvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.KafkaEnabled() {
		publisher := outbox.NewKafkaPublisher(cfg.KafkaBrokers)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn().Err(err).Msg("close kafka publisher")
			}
		}()

		relay := outbox.NewRelay(postgres.NewOutboxRepository(pool), publisher, logger,
			outbox.WithInterval(time.Duration(cfg.OutboxInterval)),
			outbox.WithPublishedHook(m.EventsPublished.Inc))

		group.Go(func() error {
			logger.Info().Strs("brokers", cfg.KafkaBrokers).Msg("outbox relay started")
			return relay.Run(groupCtx)
		})
	} else {
		logger.Warn().Msg("no kafka brokers configured, outbox events stay queued")
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}

func loadEnvFile(logger zerolog.Logger) {
	path, err := findEnvFile()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to locate .env")
		return
	}
	if path == "" {
		return
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to open env file")
		return
	}
	if err := parseEnvFile(logger, file); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to load env file")
	} else {
		logger.Info().Str("path", path).Msg("loaded env file")
	}
	_ = file.Close()
}

func findEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for i := 0; i < 6; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

func parseEnvFile(logger zerolog.Logger, file *os.File) error {
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		value = trimQuotes(value)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			logger.Warn().Str("key", key).Msg("failed to set key from env file")
		}
	}
	return scanner.Err()
}

func trimQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	if (value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

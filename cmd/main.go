package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snack-counter/internal/catalog"
	"snack-counter/internal/config"
	"snack-counter/internal/console"
	"snack-counter/internal/database"
	"snack-counter/internal/logger"
	"snack-counter/internal/messaging"
	"snack-counter/internal/money"
	"snack-counter/internal/receipt"
	"snack-counter/internal/services/notification"
	"snack-counter/internal/services/order"
	"snack-counter/internal/services/session"
	"snack-counter/internal/storage"
	"snack-counter/internal/storage/jsonfile"
	"snack-counter/internal/storage/sqlite"
)

const (
	modeKiosk          = "kiosk"
	modeCounterDisplay = "counter-display"

	shutdownTimeout     = 10 * time.Second
	sessionDrainTimeout = 2 * time.Second
)

func main() {
	var (
		mode       = flag.String("mode", modeKiosk, "Run mode (kiosk, counter-display)")
		configPath = flag.String("config", "config.yaml", "Path to the YAML config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count for counter-display mode")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		exitf("Error: %v", err)
	}

	log, err := logger.New(*mode, cfg.Logging.Level, cfg.Logging.Output)
	if err != nil {
		exitf("Error: %v", err)
	}
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":    *mode,
		"backend": cfg.Storage.Backend,
		"config":  *configPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case modeKiosk:
		err = runKiosk(ctx, cfg, log)
	case modeCounterDisplay:
		err = runCounterDisplay(ctx, cfg, log, *prefetch)
	default:
		err = fmt.Errorf("unknown mode: %s", *mode)
	}
	stop()

	if err != nil {
		log.Error("service_failed", "Service failed", requestID, err, nil)
		_ = log.Sync()
		exitf("Error: %v", err)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
	_ = log.Sync()
}

// runKiosk serves one interactive session on the terminal
func runKiosk(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	formatter, err := money.NewFormatter(cfg.App.Currency, cfg.App.Locale)
	if err != nil {
		return err
	}

	snacks := cfg.Catalog
	if len(snacks) == 0 {
		snacks = catalog.Default()
	}
	cat, err := catalog.New(snacks)
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	receipts, err := receipt.NewWriter(cfg.Receipt.Path, formatter)
	if err != nil {
		return err
	}

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	store := order.NewStore(backend, log)
	store.Load(ctx)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("store_close_failed", "Failed to flush orders on exit", "shutdown", err, nil)
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	var opts []order.Option
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(ctx, cfg.RabbitMQURL(), log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		publisher := messaging.NewPublisher(conn, log)
		defer publisher.Close()
		opts = append(opts, order.WithNotifier(publisher))
	}

	svc := order.NewService(store, receipts, log, opts...)
	prompt := console.NewPrompter(os.Stdin, os.Stdout)
	handler := order.NewHandler(svc, cat, formatter, prompt, log)
	sess := session.New(prompt, handler, log)

	// Reads on stdin cannot be interrupted, so the session runs aside and a
	// signal ends the kiosk without waiting for the pending prompt.
	done := make(chan error, 1)
	go func() {
		done <- sess.Run(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout)
		log.Info("graceful_shutdown", "Received shutdown signal", "shutdown", nil)
		// Let a checkout already in flight finish before the store flushes.
		select {
		case <-done:
		case <-time.After(sessionDrainTimeout):
		}
		return nil
	}
}

// openBackend opens the configured durable order storage
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.Memory{}, nil

	case config.BackendJSON:
		store, err := jsonfile.Open(cfg.Storage.OrdersPath)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.DatabaseURL(), log)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return database.NewOrderStore(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// runCounterDisplay prints a ticket for every order placed at the kiosks
func runCounterDisplay(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("counter-display mode requires rabbitmq.enabled")
	}

	conn, err := messaging.New(ctx, cfg.RabbitMQURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	consumer := messaging.NewConsumer(conn, log, messaging.CounterDisplayQueue, "counter-display", prefetch)
	subscriber := notification.NewSubscriber(consumer, log, os.Stdout)

	fmt.Fprintln(os.Stdout, "Counter display waiting for orders...")
	return subscriber.Start(ctx)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

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

	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/routes"
	"github.com/dendyfood/dendyfood-api/utils"
	"github.com/rs/zerolog/log"
)

const usage = `usage: dendyfood [serve|migrate|seed]

  serve    run the API server (default)
  migrate  create or update the database schema
  seed     replace all orders and menu items with the default catalog`

func setup() *initializers.Config {
	initializers.LoadEnv()
	cfg := initializers.LoadConfig()
	initializers.InitLogger(cfg)

	if err := initializers.ConnectToDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := initializers.SyncDatabase(initializers.DB); err != nil {
		log.Fatal().Err(err).Msg("failed to sync database")
	}
	return cfg
}

func main() {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		cfg := setup()
		if err := initializers.BootstrapAdmin(initializers.DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin")
		}
		if err := serve(cfg); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	case "migrate":
		setup()
	case "seed":
		cfg := setup()
		if err := initializers.Seed(initializers.DB); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
		if err := initializers.BootstrapAdmin(initializers.DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin")
		}
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func wireServices(ctx context.Context, cfg *initializers.Config) error {
	var notifiers utils.Notifiers
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifiers = append(notifiers, utils.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID))
	}
	mailCfg := utils.MailConfig{
		From:     cfg.FromEmail,
		Password: cfg.FromEmailPassword,
		SMTPHost: cfg.FromEmailSMTP,
		Address:  cfg.SMTPAddress,
		To:       cfg.OrderEmailTo,
	}
	if mailCfg.Enabled() {
		notifiers = append(notifiers, utils.NewMailNotifier(mailCfg))
	}
	if len(notifiers) == 0 {
		log.Warn().Msg("no order notification channel configured")
	}
	controllers.Notifier = notifiers

	switch cfg.ImageStore {
	case "s3":
		if cfg.S3Bucket == "" {
			return errors.New("IMAGE_STORE=s3 requires S3_BUCKET")
		}
		store, err := utils.NewS3ImageStore(ctx, cfg.S3Bucket)
		if err != nil {
			return err
		}
		controllers.Images = store
	case "local":
		controllers.Images = utils.LocalImageStore{Dir: cfg.UploadDir, BaseURL: cfg.PublicBaseURL}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", cfg.ImageStore)
	}

	if cfg.RedisURL != "" {
		store, err := utils.NewRedisSnapshotStore(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		if err := store.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis is unreachable, menu snapshots will fail until it is back")
		}
		controllers.MenuSnapshots = store
	}
	return nil
}

func serve(cfg *initializers.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := wireServices(ctx, cfg); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

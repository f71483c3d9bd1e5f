package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"volunteermap/config"
	"volunteermap/internal/adapters/auth"
	"volunteermap/internal/adapters/cloudinary"
	"volunteermap/internal/adapters/eventsapi"
	"volunteermap/internal/clock"
	"volunteermap/internal/delivery/cli"
	"volunteermap/internal/domain"
	"volunteermap/internal/repository/sqlstore"
	"volunteermap/internal/services"
)

// flagConfig holds CLI overrides applied on top of the environment.
type flagConfig struct {
	configPath string
	apiBaseURL string
	eventsPath string
	once       bool
}

func main() {
	flags := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if flags.configPath != "" {
		cfg.MapSettingsFile = flags.configPath
	}
	if flags.apiBaseURL != "" {
		cfg.APIBaseURL = flags.apiBaseURL
	}
	if flags.eventsPath != "" {
		cfg.EventsPath = flags.eventsPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger()
	slog.SetDefault(logger)
	logger.Info("volunteermap starting", "config", cfg.String(), "once", flags.once)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flags, logger); err != nil {
		logger.Error("volunteermap stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, flags flagConfig, logger *slog.Logger) error {
	client, err := eventsapi.NewClient(eventsapi.NewHTTPClient(logger, cfg.HTTPTimeout), cfg.APIBaseURL, cfg.EventsPath)
	if err != nil {
		return fmt.Errorf("events client: %w", err)
	}

	uploader, err := newUploader(cfg, client)
	if err != nil {
		return fmt.Errorf("image uploader: %w", err)
	}

	mapSettings, err := config.LoadMapSettings(cfg.MapSettingsFile)
	if err != nil {
		return fmt.Errorf("map settings: %w", err)
	}

	db, err := sqlstore.Open(ctx, cfg.SessionDBDriver, cfg.SessionDBURL)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer closeDB(db, logger)
	store := sqlstore.NewSessionStore(db, cfg.SessionDBDriver)

	out := cli.NewSyncWriter(os.Stdout)
	notifier := cli.NewConsoleNotifier(out)
	authCtx := services.NewAuthContext()
	authSvc := services.NewAuthService(client, store, auth.NewJWTInspector(), authCtx, notifier, logger)

	app := cli.NewApp(cli.Deps{
		API:         client,
		Auth:        authSvc,
		AuthContext: authCtx,
		Store:       store,
		Uploader:    uploader,
		Notifier:    notifier,
		Clock:       clock.NewSystem(),
		Logger:      logger,
		Region:      mapSettings.DefaultRegion,
		Padding:     mapSettings.EdgePadding,
		Position:    domain.DefaultPosition,
		OrganizerID: cfg.OrganizerID,
	}, out)

	if flags.once {
		app.Navigate(ctx, domain.ScreenEventMap)
		return nil
	}
	if err := app.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("volunteermap exiting")
	return nil
}

func newUploader(cfg *config.Config, client *eventsapi.Client) (domain.ImageUploader, error) {
	if cfg.ImageUploader == config.UploaderCloudinary {
		return cloudinary.NewUploader(cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
		})
	}
	return client, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("close session store", "err", err)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to map settings YAML (overrides MAP_SETTINGS_FILE)")
	flag.StringVar(&cfg.apiBaseURL, "api", "", "Events API base URL (overrides API_BASE_URL)")
	flag.StringVar(&cfg.eventsPath, "events-path", "", "Events collection path (overrides EVENTS_PATH)")
	flag.BoolVar(&cfg.once, "once", false, "Print the event map once and exit")

	flag.Parse()

	return cfg
}

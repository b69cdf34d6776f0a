package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decoderd/decoderd/internal/config"
	"github.com/decoderd/decoderd/internal/database"
	internalhttp "github.com/decoderd/decoderd/internal/http"
	"github.com/decoderd/decoderd/internal/http/handlers"
	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/registry"
	"github.com/decoderd/decoderd/internal/repository"
	"github.com/decoderd/decoderd/internal/service"
	"github.com/decoderd/decoderd/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decoderd server",
	Long: `Start the decoderd HTTP server and API.

The server provides:
- REST API for decoder selection, capability listing, and selection history
- Health check endpoints
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("database", "decoderd.db", "Database file path")

	// Registry flags
	serveCmd.Flags().String("registry", "ffmpeg", "Registry backend (ffmpeg, snapshot)")
	serveCmd.Flags().String("snapshot", "", "Decoder snapshot file for the snapshot backend")

	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("database.dsn", serveCmd.Flags().Lookup("database"))
	mustBindPFlag("registry.kind", serveCmd.Flags().Lookup("registry"))
	mustBindPFlag("registry.snapshot_path", serveCmd.Flags().Lookup("snapshot"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize database
	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Initialize registry and selection service
	reg, err := newRegistry(cfg, logger)
	if err != nil {
		return err
	}

	selectionService := service.NewSelectionService(
		newSelector(cfg, reg, logger),
		repository.NewSelectionRepository(db.DB),
	).WithLogger(logger)

	// Initialize HTTP server
	serverConfig := internalhttp.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	server := internalhttp.NewServer(serverConfig, logger, version.Version)

	// Register handlers
	healthHandler := handlers.NewHealthHandler(version.Version).WithDB(db.DB)
	healthHandler.Register(server.API())

	decoderHandler := handlers.NewDecoderHandler(selectionService)
	decoderHandler.Register(server.API())

	selectionHandler := handlers.NewSelectionHandler(selectionService)
	selectionHandler.Register(server.API())

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting decoderd server",
		slog.String("host", serverConfig.Host),
		slog.Int("port", serverConfig.Port),
		slog.String("registry", cfg.Registry.Kind),
		slog.String("version", version.Version),
	)

	return server.ListenAndServe(ctx)
}

// loadConfig materializes the already-initialized viper state into a Config.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// newRegistry constructs the configured registry backend.
func newRegistry(cfg *config.Config, logger *slog.Logger) (mediacodec.Registry, error) {
	switch cfg.Registry.Kind {
	case "snapshot":
		return registry.NewSnapshotRegistry(cfg.Registry.SnapshotPath, logger), nil
	case "ffmpeg":
		return registry.NewFFmpegRegistry(
			cfg.Registry.FFmpegPath,
			time.Duration(cfg.Registry.ProbeTimeout),
			logger,
		), nil
	default:
		return nil, fmt.Errorf("unknown registry kind: %q", cfg.Registry.Kind)
	}
}

// newSelector builds a Selector whose preference tables reflect both the
// registry's reported capabilities and the configured selection policy.
func newSelector(cfg *config.Config, reg mediacodec.Registry, logger *slog.Logger) *mediacodec.Selector {
	features := reg.Features(context.Background())
	features.ConstrainedProfiles = features.ConstrainedProfiles && cfg.Selector.ConstrainedProfiles
	features.AV1Profiles = features.AV1Profiles && cfg.Selector.AV1Profiles

	prefs := mediacodec.NewPreferences(mediacodec.Options{
		PreferBaseline: cfg.Selector.PreferBaseline,
		Features:       features,
	})
	return mediacodec.NewSelector(reg, prefs, logger)
}

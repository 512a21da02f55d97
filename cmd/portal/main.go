// Command portal runs the supplier registration service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fundacionidi/portal-proveedores/internal/api"
	"github.com/fundacionidi/portal-proveedores/internal/auth"
	"github.com/fundacionidi/portal-proveedores/internal/config"
	"github.com/fundacionidi/portal-proveedores/internal/database"
	"github.com/fundacionidi/portal-proveedores/internal/mediastore"
	"github.com/fundacionidi/portal-proveedores/internal/notify"
	"github.com/fundacionidi/portal-proveedores/internal/repository"
	"github.com/fundacionidi/portal-proveedores/internal/uploads"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "portal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "portal",
		Short:        "Portal de Proveedores API",
		Long:         `Portal de Proveedores accepts supplier registration submissions, stores their documents, and notifies the administration team.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

// serve initializes every collaborator exactly once and runs the server until
// the context is cancelled. Client construction happens here, before any
// request is served, so handlers only ever see ready clients.
func serve(ctx context.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	records := repository.NewRegistroRepository(pool)

	media, err := mediastore.New(cfg)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}
	if err := media.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	uploader := uploads.New(media, cfg.StoragePrefix, cfg.UploadTimeout, logger)

	mailer := notify.New(cfg)
	guard := auth.NewGuard(cfg.JWTSecret, logger)

	srv := api.New(cfg, logger, records, uploader, mailer, guard)
	return srv.Run(ctx)
}

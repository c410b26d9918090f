package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"insight-web/pkg/api"
	"insight-web/pkg/clients/insight"
	"insight-web/pkg/config"
	"insight-web/pkg/phonemask"
	"insight-web/pkg/services"
	"insight-web/pkg/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "insight-web",
		Short:        "Insight storefront and admin panel",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.AddCommand(newServeCmd(), newMaskCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mask <phone>...",
		Short: "Print a phone number the way the lead form shows it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), phonemask.Format(strings.Join(args, " ")))
			return err
		},
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadSettings reads the env files into the environment, then the config,
// and builds the logger the config asks for. A missing env file is not an
// error.
func loadSettings(buildLogger func(debug bool) (*zap.Logger, error), envFiles ...string) (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load(envFiles...)

	cfg := config.LoadConfig()

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		logger.Info("no .env file, using environment", zap.Error(envErr))
	}
	return cfg, logger, nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := loadSettings(newLogger)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sessions, err := session.NewStore([]byte(cfg.SessionSecret), cfg.SessionMaxAge, cfg.SecureCookies)
	if err != nil {
		logger.Error("SESSION_SECRET must be set")
		return err
	}

	location := cfg.Location()
	tmpl, err := api.Templates(location, cfg.APIURL)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// Initialize API client and services
	insightClient := insight.NewClient(cfg.APIURL, cfg.HTTPTimeout, logger.Named("insight"))
	storefront := services.NewStorefrontService(insightClient, cfg.PageSize, location, logger.Named("storefront"))
	leadForms := services.NewLeadFormRegistry(insightClient, cfg.LeadFormTTL, logger.Named("leads"))

	gin.SetMode(cfg.GinMode)

	handlers := api.NewHandlers(storefront, leadForms, sessions, logger)
	router := api.NewRouter(handlers, api.RouterConfig{
		Templates:     tmpl,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.SecureCookies,
		Logger:        logger.Named("http"),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("api_url", cfg.APIURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

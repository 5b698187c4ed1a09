package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/handlers"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/justsurfingit/job-portal/internal/validation"
	"github.com/spf13/cobra"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// notificationBuffer bounds queued applicant mails.
const notificationBuffer = 256

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Example: `  # Start on PORT from the environment (default 8080)
  api serve

  # Start on a custom port
  api serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := validation.RegisterWithGin(); err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	notifier := services.NewNotificationService(newMailer(ctx, cfg), notificationBuffer)
	photos := storage.NewPhotoStore(cfg.MediaDir, cfg.MediaBaseURL, cfg.MaxPhotoSize)
	captures := services.NewCaptureService(ctx, cfg.Capture.Flow(), cfg.Capture.SessionTTL, photos)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	go notifier.Start(ctx)
	go captures.Run(ctx)

	router := handlers.NewRouter(handlers.Deps{
		DB:           db,
		Auth:         services.NewAuthService(db, tokens),
		Jobs:         services.NewJobService(db, cfg.DefaultCompany),
		Applications: services.NewApplicationService(db, photos, captures, notifier),
		Captures:     captures,
		LLM:          llmService,
		CORSOrigins:  cfg.CORSOrigins,
		MediaDir:     cfg.MediaDir,
		MediaBaseURL: cfg.MediaBaseURL,
	})

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Job portal API listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return fmt.Errorf("serve: %w", err)
	}
}

// newMailer returns the Gmail sender when notifications are on and the
// account is authorized, and a logging stand-in otherwise.
func newMailer(ctx context.Context, cfg *config.Config) services.Mailer {
	if !cfg.NotifyApplicants {
		return services.LogMailer{}
	}
	httpClient, err := auth.GetGmailClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
	if err != nil {
		slog.Warn("Gmail notifications disabled", "err", err)
		return services.LogMailer{}
	}
	gmailService, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		slog.Warn("Failed to create Gmail service", "err", err)
		return services.LogMailer{}
	}
	slog.Info("Gmail notifications enabled")
	return &services.GmailMailer{Client: gmailService}
}

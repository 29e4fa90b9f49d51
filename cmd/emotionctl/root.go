package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/backend"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/config"
)

// Version is the CLI version.
const Version = "0.1.0"

var (
	// client is shared by every subcommand; built in PersistentPreRunE.
	client *backend.Client

	baseURL    string
	lang       string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "emotionctl",
	Short:         "Command-line client for the emotion-analysis backend",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read .env: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.APIBaseURL = baseURL
		}
		if lang != "" && lang != "en" && lang != "ar" {
			return fmt.Errorf("--lang must be en or ar, got %q", lang)
		}

		logger := config.NewLogger(cfg.Environment)
		slog.SetDefault(logger)

		tokens, err := tokenStore(cfg)
		if err != nil {
			return err
		}

		client = backend.NewClient(backend.Config{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.APITimeout,
		}, backend.WithTokenStore(tokens), backend.WithLogger(logger))
		return nil
	},
}

func tokenStore(cfg *config.Config) (backend.TokenStore, error) {
	path := cfg.TokenFile
	if path == "" {
		p, err := backend.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return backend.NewFileTokenStore(path), nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "api", "", "backend base URL (default: API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "en", "label language for display: en or ar")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON instead of tables")
}

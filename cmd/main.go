package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/roadmap-backend/internal/app"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/services"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "roadmapd"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Roadmap hierarchy service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd(), migrateCmd(), tokenCmd(), versionCmd())
	return cmd
}

// bootstrap builds the logger from LOG_MODE before the config is read, so
// config errors are logged the same way as everything else.
func bootstrap() (app.Config, *logger.Logger, error) {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading configuration...")
	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Sync()
		return app.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log, Version)
			if err != nil {
				log.Error("App init failed", "error", err)
				log.Sync()
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := app.Migrate(cfg, log); err != nil {
				log.Error("Migration failed", "error", err)
				return err
			}
			log.Info("Migration complete")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		userFlag string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed development token",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user must be a uuid: %w", err)
			}
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			token, err := services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).IssueToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userFlag, "user", "", "User uuid to embed as the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}


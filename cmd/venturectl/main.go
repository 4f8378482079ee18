package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/bootstrap"
	"venture-ai-be/internal/config"
	"venture-ai-be/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	userId    string
	sessionId string
	logPath   string

	container *bootstrap.Container
)

var rootCmd = &cobra.Command{
	Use:   "venturectl",
	Short: "Run venture analyses from the command line",
	Long: `venturectl drives the analysis pipeline in-process using the backends
configured in the environment (.env is honoured).

Sessions only survive between invocations with a shared session backend
(SESSION_BACKEND=redis or firestore).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if logPath != "" {
			cfg.App.LogFilePath = logPath
		}
		log := logger.NewIsolatedLogger(cfg.App.LogFilePath)

		var err error
		container, err = bootstrap.NewContainer(cmd.Context(), cfg, log, bootstrap.Options{
			Registerer: prometheus.NewRegistry(),
			SkipEvents: true,
			LocalFiles: true,
		})
		if err != nil {
			return fmt.Errorf("failed to bootstrap: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container != nil {
			_ = container.Close()
			_ = container.Logger.Sync()
		}
	},
}

func init() {
	defaultUser := os.Getenv("USER")
	if defaultUser == "" {
		defaultUser = "cli"
	}
	rootCmd.PersistentFlags().StringVarP(&userId, "user", "u", defaultUser, "user that owns the session and analyses")
	rootCmd.PersistentFlags().StringVarP(&sessionId, "session", "s", "", "session id (a new one is created when empty)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "log file path (overrides LOG_FILE_PATH)")

	rootCmd.AddCommand(analyzeCmd, askCmd, followupCmd, queryCmd, listCmd, showCmd, sessionCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		kind := apperror.KindOf(err)
		if stage := apperror.StageOf(err); stage != "" {
			fmt.Fprintf(os.Stderr, "error [%s at %s]: %v\n", kind, stage, err)
		} else {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", kind, err)
		}
		os.Exit(1)
	}
}

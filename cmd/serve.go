package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/config"
	"bigocheck/internal/runner"
	"bigocheck/internal/server"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the estimator.

Endpoints:
  POST /analyze      {"code": "...", "language": "python"}
  POST /run/{lang}   {"code": "..."}   (only when runner.enabled is true)
  GET  /healthz

The listen address comes from --addr, then BIGOCHECK_ADDR (a .env file in the
working directory is loaded first), then server.addr in the config file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine.
		_ = godotenv.Load()

		cfg, err := loadConfig()
		if err != nil {
			color.Red("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		cfg.ApplyEnv()
		if addrFlag != "" {
			cfg.Server.Addr = addrFlag
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(cfg)
		srv := server.New(cfg, analyzer.NewAnalyzer(cfg), runner.New(cfg.Runner), logger)
		if err := srv.ListenAndServe(ctx); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides config and BIGOCHECK_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the structured logger used by the long-running commands.
// Logs go to stderr; verbose output enables debug records.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

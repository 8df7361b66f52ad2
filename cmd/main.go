// Command renex manages an encrypted trader key and trades on RenEx with it.
//
// Usage:
//
//	renex encrypt <hexPrivateKey>
//	renex load <path>
//	renex balance <token>
//	renex deposit <amount> <token>
//	renex withdraw <amount> <token>
//	renex buy <token>
//	renex sell <token>
//	renex cancel <orderId>
//	renex list orders
//	renex list balance
//
// Environment variables:
//
//	INFURA_KEY      project key appended to the RPC base url
//	RENEX_CLI_HOME  data dir, ~/.config/renex-cli by default
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vadiminshakov/renexcli/config"
	"github.com/vadiminshakov/renexcli/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil {
		errorStyle := lipgloss.NewRenderer(os.Stderr).NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var logger *zap.Logger
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()

	app := cli.New(config.Get, cli.WithLoggerFactory(func(verbose bool) *zap.Logger {
		logger = newLogger(verbose)
		return logger
	}))

	return app.Execute(ctx, args)
}

func newLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

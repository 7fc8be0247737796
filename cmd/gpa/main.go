package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghzx55/graderevive/internal/account"
	"github.com/ghzx55/graderevive/internal/cli"
	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/logger"
	"github.com/ghzx55/graderevive/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr, tables to stdout.
	level := "warn"
	if cfg.Logging.Level == "debug" {
		level = "debug"
	}
	logger.Init(level, "console")

	tokenPath := cfg.AccountAPI.TokenPath
	if tokenPath == "" {
		if tokenPath, err = account.DefaultTokenPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, account.NewFileTokenStore(tokenPath), os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		report.NewRenderer(os.Stderr).Error("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/dealflow/internal/cli"
	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/config"
	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/logging"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.Failure(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// State lives in ~/.dealflow unless DEALFLOW_DB_PATH and friends say otherwise.
	dir, err := config.DefaultDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Close()

	// Open the local token store
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := cli.NewApp(cfg, repository.NewSQLiteTokenRepo(database), logger.Logger)

	// The bare command opens the board only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

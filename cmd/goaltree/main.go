package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/goaltree/internal/cli"
	"github.com/alexanderramin/goaltree/internal/config"
	"github.com/alexanderramin/goaltree/internal/db"
	"github.com/alexanderramin/goaltree/internal/layout"
	"github.com/alexanderramin/goaltree/internal/navigation"
	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/alexanderramin/goaltree/internal/service"
	"github.com/alexanderramin/goaltree/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, logCloser, err := cfg.Logger(os.Stderr)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	defer logCloser.Close()

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire the store and the view pipeline
	repo := repository.NewNodeRepoWithUoW(database, db.NewSQLiteUnitOfWork(database))
	st := store.New(repo, store.WithLogger(logger))
	if err := st.Start(ctx); err != nil {
		return err
	}
	defer st.Close()

	pipeline := projection.NewPipeline(st, projection.WithPipelineLogger(logger))
	pipeCtx, cancelPipe := context.WithCancel(ctx)
	defer cancelPipe()
	go func() {
		if err := pipeline.Run(pipeCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("view pipeline stopped", "error", err)
		}
	}()

	// Wire services
	nav := navigation.New()
	observer := service.NewSlogUseCaseObserver(logger)
	color := service.WithDefaultColor(cfg.Defaults.Color)
	canvas := layout.Canvas{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		NodeRadius: cfg.Canvas.NodeRadius,
	}

	app := &cli.App{
		Goals:    service.NewGoalService(st, pipeline, nav, observer, color),
		Map:      service.NewMapService(st, pipeline, nav, canvas, observer, color),
		Exchange: service.NewExchangeService(st, pipeline, nav, observer, color),
		Updates:  pipeline,
	}

	// Detect interactive terminal for the browser entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

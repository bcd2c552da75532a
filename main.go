package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"

	"obst/internal/config"
	"obst/internal/logger"
	mcpserver "obst/internal/mcp"
	"obst/internal/service"
	"obst/internal/storage"
	"obst/internal/tui"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.MCP {
		// stdout carries the protocol.
		log := logger.New(os.Stderr, cfg.Verbose, true)
		svc, err := newService(ctx, cfg, log)
		if err != nil {
			return err
		}
		srv := mcpserver.New(mcpserver.Deps{Observations: svc, Log: log, Version: version})
		return srv.ServeStdio()
	}

	// The terminal UI owns stdout, so logs go to a file.
	log, logFile, err := logger.OpenFile(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logFile.Close()

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		tui.NewModel(ctx, svc, log),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	log.Info("bye")
	return nil
}

func newService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*service.ObservationService, error) {
	gw, err := storage.Open(cfg.Storage(), log)
	if err != nil {
		return nil, err
	}
	// Not fatal: every request reconnects, and the UI reports failures.
	if err := gw.Ping(ctx); err != nil {
		log.Warn("storage not reachable at startup", "error", err)
	} else {
		log.Info("storage ready", "driver", gw.Driver())
	}
	return service.NewObservationService(gw, clockwork.NewRealClock(), log), nil
}

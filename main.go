package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"hourglass/internal"
	"hourglass/internal/config"
	"hourglass/internal/history"
	"hourglass/internal/mirror"
	"hourglass/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	clock := clockwork.NewRealClock()
	sched := timer.NewClockScheduler(clock)
	defer sched.Stop()
	stack := timer.NewStack(clock, sched, cfg.Tiers())

	var store internal.HistoryStore
	if cfg.History.Enabled {
		repo, err := history.NewRepository(cfg.History.Path)
		if err != nil {
			return err
		}
		defer repo.Close()
		store = repo
		log.Info().Str("path", cfg.History.Path).Str("session", repo.Session()).Msg("history enabled")
	}

	var pub internal.Publisher
	if cfg.Mirror.Enabled {
		hub := mirror.NewHub(cfg.Mirror.AllowedOrigins)
		server := mirror.NewServer(cfg.Mirror.Addr, hub, cfg.Mirror.AllowedOrigins)
		go func() {
			log.Info().Str("addr", server.Addr).Msg("display mirror starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("display mirror failed")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("display mirror shutdown failed")
			}
		}()
		pub = hub
	}

	m := internal.NewModel(clock, stack, store, pub)
	p := tea.NewProgram(m, tea.WithAltScreen())

	ticker := clock.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				p.Send(internal.MsgTick{})
			case <-sched.Fired():
				p.Send(internal.MsgRotate{})
			}
		}
	}()

	log.Info().
		Dur("refresh", cfg.RefreshInterval).
		Bool("history", cfg.History.Enabled).
		Bool("mirror", cfg.Mirror.Enabled).
		Msg("starting hourglass")

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	log.Info().Msg("hourglass stopped")
	return nil
}

// setupLogging sends zerolog output to the configured file, since the
// terminal belongs to the UI.
func setupLogging(cfg *config.Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(cfg.LogLevel())
	return f, nil
}

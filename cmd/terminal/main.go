package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/zappabad/agentmarket/internal/config"
	"github.com/zappabad/agentmarket/internal/oracle"
	"github.com/zappabad/agentmarket/internal/sim"
	"github.com/zappabad/agentmarket/tui"
)

func main() {
	stderrLog := zerolog.New(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}

	// The terminal owns stdout, so logs go to a file when requested
	// and are discarded otherwise.
	log := zerolog.Nop()
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			log = newLogger(f, cfg.App.LogLevel)
		}
	}

	var orc oracle.Oracle
	if cfg.UseOracle() {
		orc = oracle.NewClient(cfg.OracleClientConfig(), log)
	}

	simulator, err := sim.New(cfg.SimConfig(), orc, log)
	if err != nil {
		stderrLog.Fatal().Err(err).Msg("failed to build simulation")
	}

	p := tea.NewProgram(tui.NewModel(simulator), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		stderrLog.Fatal().Err(err).Msg("tui crashed")
	}
}

func newLogger(w *os.File, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

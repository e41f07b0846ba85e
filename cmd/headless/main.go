package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/zappabad/agentmarket/internal/config"
	"github.com/zappabad/agentmarket/internal/oracle"
	"github.com/zappabad/agentmarket/internal/sim"
)

func main() {
	steps := flag.Int("steps", 100, "number of simulation steps to run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := newLogger(cfg)

	var orc oracle.Oracle
	if cfg.UseOracle() {
		orc = oracle.NewClient(cfg.OracleClientConfig(), log)
		log.Info().Str("endpoint", cfg.Oracle.Endpoint).Msg("remote oracle enabled")
	} else {
		log.Info().Msg("running with deterministic fallback oracle")
	}

	simulator, err := sim.New(cfg.SimConfig(), orc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build simulation")
	}

	ctx := context.Background()
	for i := 0; i < *steps; i++ {
		rec := simulator.Step(ctx)
		log.Info().
			Int("step", rec.Step).
			Float64("price", rec.Price).
			Float64("sentiment", rec.Sentiment).
			Float64("buy_volume", rec.BuyVolume).
			Float64("sell_volume", rec.SellVolume).
			Str("news", rec.News.Headline).
			Msg("step")
	}

	snap := simulator.Snapshot()
	log.Info().
		Str("run_id", snap.RunID.String()).
		Int("steps", snap.Step).
		Float64("price", snap.Stats.Price).
		Float64("change_pct", snap.Stats.ChangePct).
		Float64("volatility", snap.Stats.Volatility).
		Float64("min", snap.Stats.Min).
		Float64("max", snap.Stats.Max).
		Float64("sentiment", snap.Sentiment).
		Msg("run complete")
}

func newLogger(cfg config.Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := os.Stderr
	if cfg.App.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

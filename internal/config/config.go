package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/oracle"
	"github.com/zappabad/agentmarket/internal/sim"
)

// Config is the process-level configuration loaded from the
// environment. It covers the knobs an operator tunes; the full
// parameter surface lives in the per-package Config structs, reached
// here through sim.DefaultConfig.
type Config struct {
	App    AppConfig
	Sim    SimConfig
	Oracle OracleConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty   bool   `envconfig:"LOG_PRETTY" default:"false"`
}

type SimConfig struct {
	InitialPrice  float64 `envconfig:"SIM_INITIAL_PRICE" default:"100"`
	InitialCash   float64 `envconfig:"SIM_INITIAL_CASH" default:"10000"`
	InitialShares float64 `envconfig:"SIM_INITIAL_SHARES" default:"0"`
	MaxOrderSize  float64 `envconfig:"SIM_MAX_ORDER_SIZE" default:"100"`
	Seed          uint64  `envconfig:"SIM_SEED" default:"1"`
	Optimists     int     `envconfig:"SIM_OPTIMISTS" default:"2"`
	Pessimists    int     `envconfig:"SIM_PESSIMISTS" default:"2"`
	Calm          int     `envconfig:"SIM_CALM" default:"1"`
	Volatility    float64 `envconfig:"SIM_VOLATILITY" default:"0.01"`
	NewsWeight    float64 `envconfig:"SIM_NEWS_WEIGHT" default:"0.05"`
	FlowWeight    float64 `envconfig:"SIM_FLOW_WEIGHT" default:"0.05"`
	HistoryCap    int     `envconfig:"SIM_HISTORY_CAP" default:"0"`
}

type OracleConfig struct {
	// Endpoint empty (or Mock set) runs the deterministic fallback
	// only; the simulation is fully functional without a backend.
	Endpoint    string        `envconfig:"ORACLE_ENDPOINT"`
	APIKey      string        `envconfig:"ORACLE_API_KEY"`
	Model       string        `envconfig:"ORACLE_MODEL" default:"gpt-4o-mini"`
	Timeout     time.Duration `envconfig:"ORACLE_TIMEOUT" default:"8s"`
	Temperature float64       `envconfig:"ORACLE_TEMPERATURE" default:"0.6"`
	Parallelism int           `envconfig:"ORACLE_PARALLELISM" default:"4"`
	Mock        bool          `envconfig:"ORACLE_MOCK" default:"false"`
}

// Load reads .env (best effort) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// SimConfig expands the environment knobs into a full simulation
// config on top of the package defaults.
func (c Config) SimConfig() sim.Config {
	sc := sim.DefaultConfig()
	sc.InitialPrice = c.Sim.InitialPrice
	sc.InitialCash = c.Sim.InitialCash
	sc.InitialShares = c.Sim.InitialShares
	sc.MaxOrderSize = c.Sim.MaxOrderSize
	sc.HistoryCap = c.Sim.HistoryCap
	sc.Roster = roster(c.Sim.Optimists, c.Sim.Pessimists, c.Sim.Calm)
	sc.News.Seed = c.Sim.Seed
	sc.Market.Seed = c.Sim.Seed + 1
	sc.Market.Volatility = c.Sim.Volatility
	sc.Market.NewsWeight = c.Sim.NewsWeight
	sc.Market.FlowWeight = c.Sim.FlowWeight
	sc.OracleTimeout = c.Oracle.Timeout
	sc.OracleParallelism = c.Oracle.Parallelism
	return sc
}

// OracleClientConfig builds the remote oracle client config.
func (c Config) OracleClientConfig() oracle.ClientConfig {
	return oracle.ClientConfig{
		Endpoint:    c.Oracle.Endpoint,
		APIKey:      c.Oracle.APIKey,
		Model:       c.Oracle.Model,
		Timeout:     c.Oracle.Timeout,
		Temperature: c.Oracle.Temperature,
	}
}

// UseOracle reports whether a remote oracle should be wired at all.
func (c Config) UseOracle() bool {
	return c.Oracle.Endpoint != "" && !c.Oracle.Mock
}

func roster(optimists, pessimists, calm int) []agent.Type {
	var r []agent.Type
	for i := 0; i < optimists; i++ {
		r = append(r, agent.TypeOptimistic)
	}
	for i := 0; i < pessimists; i++ {
		r = append(r, agent.TypePessimistic)
	}
	for i := 0; i < calm; i++ {
		r = append(r, agent.TypeCalm)
	}
	return r
}

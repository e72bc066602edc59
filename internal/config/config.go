package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	cerr "github.com/saeidalz13/battleship-match/internal/error"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

type Config struct {
	Stage       string `env:"STAGE,required"`
	Port        int    `env:"PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	// only consulted in prod
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// golang-migrate splits the source on "://"
	MigrationDir string `env:"MIGRATION_DIR" envDefault:"file://db/migration"`

	DefaultGridSize   int    `env:"DEFAULT_GRID_SIZE" envDefault:"10"`
	DefaultTotalShips int    `env:"DEFAULT_TOTAL_SHIPS" envDefault:"5"`
	FirstTurnPolicy   string `env:"FIRST_TURN_POLICY" envDefault:"first-to-finish"`

	SessionGracePeriod     time.Duration `env:"SESSION_GRACE_PERIOD" envDefault:"2m"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"20m"`
}

// Load reads .env outside prod and parses the environment.
func Load() (*Config, error) {
	if os.Getenv("STAGE") != StageProd {
		// a missing .env is fine in dev, everything has a default
		_ = godotenv.Load(".env")
	}
	return Parse()
}

func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Stage != StageDev && c.Stage != StageProd {
		return cerr.ErrInvalidStage(c.Stage)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DefaultGridSize < mb.MinGridSize || c.DefaultGridSize > mb.MaxGridSize {
		return cerr.ErrInvalidGridSize(c.DefaultGridSize)
	}
	if c.DefaultTotalShips < 1 || c.DefaultTotalShips > mb.MaxTotalShips || c.DefaultTotalShips > c.DefaultGridSize*c.DefaultGridSize {
		return cerr.ErrInvalidTotalShips(c.DefaultTotalShips)
	}
	if _, err := mb.ParseFirstTurnPolicy(c.FirstTurnPolicy); err != nil {
		return err
	}
	if c.SessionGracePeriod <= 0 || c.SessionCleanupInterval <= 0 {
		return fmt.Errorf("session grace period and cleanup interval must be positive")
	}
	return nil
}

// Policy is the parsed FirstTurnPolicy; validate guarantees it parses.
func (c *Config) Policy() mb.FirstTurnPolicy {
	policy, _ := mb.ParseFirstTurnPolicy(c.FirstTurnPolicy)
	return policy
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

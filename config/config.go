// Package config loads runtime settings from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings for the game process.
type Config struct {
	// Seed for the combat damage rolls. Zero seeds from the clock.
	Seed int64 `env:"LOSTSTAR_SEED" envDefault:"0"`

	// Delay before the monster's combat reply.
	MonsterTurnDelay time.Duration `env:"LOSTSTAR_MONSTER_DELAY" envDefault:"1s"`

	// Delay before the defeat prompt after the player falls.
	RevivalDelay time.Duration `env:"LOSTSTAR_REVIVAL_DELAY" envDefault:"1500ms"`

	// Enable OTLP trace export. Off by default; spans are no-ops.
	Telemetry bool `env:"LOSTSTAR_TELEMETRY" envDefault:"false"`

	// Directory holding the world's .lua files.
	GameDir string `env:"LOSTSTAR_GAME_DIR" envDefault:"games/loststar"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

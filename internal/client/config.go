package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultAPIURL         = "http://localhost:2323/api"
	DefaultSearchDebounce = 500 * time.Millisecond
)

// Config controls where the client talks to and where it keeps its login.
type Config struct {
	APIURL         string        `env:"API_URL"          envDefault:"http://localhost:2323/api"`
	StatePath      string        `env:"LOGIN_STATE_PATH"`
	Timeout        time.Duration `env:"API_TIMEOUT"      envDefault:"10s"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE"  envDefault:"500ms"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath()
	}
	return &cfg, nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "loginapi", "state.db")
}

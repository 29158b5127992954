package config

import (
	"fmt"
	"net"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultTextRoot    = "../texts"
	DefaultBackendIP   = "0.0.0.0"
	DefaultBackendPort = 50051
)

// BackendConfig configures the counter backend process: where text files
// live, the Redis URL backing L2, and the gRPC listen address. TEXT_ROOT and
// REDIS_URL environment variables override the corresponding file values
// when set, matching the original env-var-only configuration this file
// supplements.
type BackendConfig struct {
	TextRoot string `toml:"text_root"`
	RedisURL string `toml:"redis_url"`
	IP       string `toml:"ip"`
	Port     uint16 `toml:"port"`
}

func LoadBackendConfig(path string) (*BackendConfig, error) {
	cfg := BackendConfig{
		TextRoot: DefaultTextRoot,
		IP:       DefaultBackendIP,
		Port:     DefaultBackendPort,
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse backend config file %q: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read backend config file %q: %w", path, err)
	}

	if v := os.Getenv("TEXT_ROOT"); v != "" {
		cfg.TextRoot = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}

	if cfg.TextRoot == "" {
		cfg.TextRoot = DefaultTextRoot
	}

	return &cfg, nil
}

func (c *BackendConfig) Addr() string {
	return net.JoinHostPort(c.IP, fmt.Sprint(c.Port))
}

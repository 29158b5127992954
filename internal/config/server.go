// Package config loads wordgate's four TOML config files: server.toml,
// load_balancer.toml, endpoints.toml (load balancer side) and backend.toml
// (counter backend side). Loading happens once at startup; there is no
// reload path.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultIP          = "127.0.0.1"
	DefaultPort        = 8080
	DefaultMetricsPort = 8081
)

// ServerConfig is the front door's listen address, metrics port and
// fault-tolerance switch, loaded from server.toml.
type ServerConfig struct {
	IP                   string `toml:"ip"`
	Port                 uint16 `toml:"port"`
	MetricsPort          uint16 `toml:"metrics_port"`
	EnableFaultTolerance bool   `toml:"enable_fault_tolerance"`
}

func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read server config file %q: %w", path, err)
	}

	var cfg ServerConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse server config file %q: %w", path, err)
	}

	if cfg.IP == "" {
		cfg.IP = DefaultIP
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MetricsPort == 0 {
		cfg.MetricsPort = DefaultMetricsPort
	}

	return &cfg, nil
}

// Addr is the ip:port the front door listens on.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.IP, fmt.Sprint(c.Port))
}

// MetricsAddr is the ip:port the /metrics HTTP endpoint listens on.
func (c *ServerConfig) MetricsAddr() string {
	return net.JoinHostPort(c.IP, fmt.Sprint(c.MetricsPort))
}

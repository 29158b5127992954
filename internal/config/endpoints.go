package config

import (
	"fmt"
	"net"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// EndpointConfig is one configured backend instance, loaded from
// endpoints.toml.
type EndpointConfig struct {
	Name   string `toml:"name"`
	IP     string `toml:"ip"`
	Port   uint16 `toml:"port"`
	Weight *int   `toml:"weight,omitempty"`
}

// Addr is the ip:port the endpoint's gRPC channel is dialed at.
func (e EndpointConfig) Addr() string {
	return net.JoinHostPort(e.IP, fmt.Sprint(e.Port))
}

type endpointPoolFile struct {
	Endpoints []EndpointConfig `toml:"endpoints"`
}

// LoadEndpointConfigs parses endpoints.toml and, when strategy is
// WeightedRoundRobin, drops entries whose weight is missing or outside
// [1,100] - those endpoints are excluded from the roster entirely and the
// WRR strategy never sees them.
func LoadEndpointConfigs(path, strategy string) ([]EndpointConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints config file %q: %w", path, err)
	}

	var file endpointPoolFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse endpoints config file %q: %w", path, err)
	}

	if strategy != StrategyWeightedRoundRobin {
		return file.Endpoints, nil
	}

	filtered := make([]EndpointConfig, 0, len(file.Endpoints))
	for _, ep := range file.Endpoints {
		if ep.Weight == nil || *ep.Weight < 1 || *ep.Weight > 100 {
			continue
		}
		filtered = append(filtered, ep)
	}
	return filtered, nil
}

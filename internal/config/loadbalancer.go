package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	StrategyRoundRobin         = "RoundRobin"
	StrategyWeightedRoundRobin = "WeightedRoundRobin"
	StrategyHashByRequest      = "HashByRequest"

	DefaultStrategy = StrategyRoundRobin
)

// LoadBalancerConfig picks the routing strategy, loaded from
// load_balancer.toml.
type LoadBalancerConfig struct {
	Strategy string `toml:"strategy"`
}

func LoadLoadBalancerConfig(path string) (*LoadBalancerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read load balancer config file %q: %w", path, err)
	}

	var cfg LoadBalancerConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse load balancer config file %q: %w", path, err)
	}

	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}

	return &cfg, nil
}

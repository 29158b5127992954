package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordgate/internal/cluster"
	"wordgate/internal/config"
	"wordgate/internal/frontdoor"
	"wordgate/internal/loadbalancer"
	"wordgate/internal/logging"
	"wordgate/internal/metrics"
	"wordgate/internal/strategy"
)

func main() {
	serverConfigPath := flag.String("server-config", "./configs/server.toml", "path to server config file")
	lbConfigPath := flag.String("loadbalancer-config", "./configs/load_balancer.toml", "path to load balancer config file")
	endpointsConfigPath := flag.String("endpoints-config", "./configs/endpoints.toml", "path to endpoints config file")
	flag.Parse()

	serverCfg, err := config.LoadServerConfig(*serverConfigPath)
	if err != nil {
		log.Fatalf("load server config: %v", err)
	}
	lbCfg, err := config.LoadLoadBalancerConfig(*lbConfigPath)
	if err != nil {
		log.Fatalf("load load balancer config: %v", err)
	}
	endpointCfgs, err := config.LoadEndpointConfigs(*endpointsConfigPath, lbCfg.Strategy)
	if err != nil {
		log.Fatalf("load endpoints config: %v", err)
	}

	logger := logging.NewWithComponent("loadbalancer")
	metrics.Init()

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	roster := make([]*cluster.Endpoint, 0, len(endpointCfgs))
	for _, ec := range endpointCfgs {
		weight := 0
		if ec.Weight != nil {
			weight = *ec.Weight
		}
		ep := cluster.NewEndpoint(ec.Name, ec.Addr(), weight, logger)
		if err := ep.Build(bgCtx); err != nil {
			log.Fatalf("connect endpoint %s: %v", ec.Name, err)
		}
		roster = append(roster, ep)
	}

	lb := loadbalancer.New("wordgate", roster, strategy.New(lbCfg.Strategy), logger)

	if serverCfg.EnableFaultTolerance {
		lb.StartHealthMaintain(bgCtx)
	} else {
		logger.Warn("fault tolerance disabled: all endpoints start and remain unhealthy")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: serverCfg.MetricsAddr(), Handler: mux}

	go func() {
		log.Printf("metrics listening on %s", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	front := frontdoor.New(serverCfg.Addr(), lb, logger)
	go func() {
		log.Printf("listening on %s (strategy=%s)", serverCfg.Addr(), lbCfg.Strategy)
		if err := front.Serve(); err != nil {
			log.Fatalf("front door error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down gracefully...")

	front.Stop()
	lb.StopHealthMaintain()

	for _, ep := range roster {
		if err := ep.Close(); err != nil {
			logger.Warn("close endpoint failed", "endpoint", ep.Name, "err", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
}

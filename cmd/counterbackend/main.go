package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"wordgate/internal/cache"
	"wordgate/internal/config"
	"wordgate/internal/counter"
	"wordgate/internal/logging"
	"wordgate/internal/metrics"
	"wordgate/internal/wordcountpb"
)

func main() {
	serverConfigPath := flag.String("server-config", "./configs/server.toml", "path to server config file")
	backendConfigPath := flag.String("backend-config", "./configs/backend.toml", "path to backend config file")
	flag.Parse()

	serverCfg, err := config.LoadServerConfig(*serverConfigPath)
	if err != nil {
		log.Fatalf("load server config: %v", err)
	}
	backendCfg, err := config.LoadBackendConfig(*backendConfigPath)
	if err != nil {
		log.Fatalf("load backend config: %v", err)
	}

	logger := logging.NewWithComponent("counterbackend")
	metrics.Init()

	local, err := cache.NewLocal(cache.DefaultByteBudget)
	if err != nil {
		log.Fatalf("build local cache: %v", err)
	}
	remote, err := cache.NewRemote(backendCfg.RedisURL, logger)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	tier := cache.NewTier(local, remote)

	svc := counter.New(backendCfg.TextRoot, tier, logger)

	grpcServer := grpc.NewServer()
	wordcountpb.RegisterCounterServer(grpcServer, svc)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", backendCfg.Addr())
	if err != nil {
		log.Fatalf("listen on %s: %v", backendCfg.Addr(), err)
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

	go func() {
		log.Printf("counter backend listening on %s (text_root=%s)", backendCfg.Addr(), backendCfg.TextRoot)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("grpc server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down gracefully...")

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	if err := remote.Close(); err != nil {
		logger.Warn("close redis client failed", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
}

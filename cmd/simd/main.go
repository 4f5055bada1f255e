// Command simd runs the simulator as a standalone process: it loads
// configuration, builds the one authoritative Universe and the
// Session that paces it, and serves the uplink websocket/healthz/
// metrics endpoints until an interrupt or termination signal arrives.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voidreach/simcore/internal/config"
	"github.com/voidreach/simcore/internal/observability"
	"github.com/voidreach/simcore/internal/session"
	"github.com/voidreach/simcore/internal/uplink"
	"github.com/voidreach/simcore/internal/universe"
)

const configPath = "simcore.json"

func main() {
	logger := observability.NewLogger().WithValues("component", "simd")
	observability.InitMetrics()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error(err, "failed to load configuration")
		os.Exit(1)
	}

	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()
	tickBudget := time.Second / time.Duration(cfg.FPS)
	observability.StartGCMonitor(gcCtx, 10*time.Second, tickBudget, logger)

	uni := universe.New(cfg, logger.WithValues("component", "universe"))
	sess := session.NewSession(session.NewRealClock(), uni, cfg.FPS, 100, 100)
	sess.SetLogger(logger.WithValues("component", "session"))

	uplink.Serve(uni, sess, logger.WithValues("component", "uplink"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", uplink.WebSocketHandler)
	mux.HandleFunc("/healthz", uplink.HealthzHandler)
	mux.HandleFunc("/metrics", uplink.MetricsHandler)

	addr := fmt.Sprintf(":%s", port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("simd starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(err, "server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("simd shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "server forced to shutdown")
		os.Exit(1)
	}

	logger.Info("simd exited")
}

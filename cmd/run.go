package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dexie-space/splash/internal/config"
	"github.com/dexie-space/splash/internal/httpapi"
	"github.com/dexie-space/splash/internal/kernel"
	"github.com/dexie-space/splash/internal/logger"
)

var zlog = logger.New("cmd")

// run assembles the kernel and its HTTP edges and blocks until a shutdown
// signal arrives or the kernel exits on its own.
func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("fatal startup: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := kernel.NewBus(kernel.DefaultBusCapacity)
	node := kernel.New(cfg, bus)

	cmds := make(chan kernel.Command)

	servers := startHTTPServers(ctx, cfg, bus, cmds)
	defer stopHTTPServers(servers)

	go func() {
		<-ctx.Done()
		close(cmds)
	}()

	if err := node.Run(ctx, cmds); err != nil {
		return fmt.Errorf("fatal: %w", err)
	}

	zlog.Info("shut down cleanly")
	return nil
}

// startHTTPServers brings up the offer-submission ingress and, if
// configured, the metrics server, each on its own background goroutine.
func startHTTPServers(ctx context.Context, cfg config.Config, bus *kernel.Bus, cmds chan<- kernel.Command) []*http.Server {
	var servers []*http.Server

	ingress := &http.Server{Addr: cfg.ListenOfferSubmission, Handler: httpapi.NewIngressRouter(cmds)}
	servers = append(servers, ingress)
	go func() {
		if err := ingress.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Sugar().Errorf("offer-submission server stopped: %v", err)
		}
	}()

	offerEvents := bus.Subscribe()
	if cfg.OfferHookURL != "" {
		hook := httpapi.NewOfferHook(cfg.OfferHookURL)
		go hook.Run(ctx, offerEvents)
	} else {
		go httpapi.StdoutSink(ctx, offerEvents)
	}

	if cfg.ListenMetrics != "" {
		metrics := httpapi.NewMetrics()
		metricsEvents := bus.Subscribe()
		go metrics.Run(ctx, metricsEvents)

		metricsServer := &http.Server{Addr: cfg.ListenMetrics, Handler: metrics.Handler()}
		servers = append(servers, metricsServer)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zlog.Sugar().Errorf("metrics server stopped: %v", err)
			}
		}()
	}

	return servers
}

func stopHTTPServers(servers []*http.Server) {
	for _, s := range servers {
		_ = s.Shutdown(context.Background())
	}
}

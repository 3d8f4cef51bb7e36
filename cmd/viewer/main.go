package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scenesync/scenesync/internal/core/config"
	"github.com/scenesync/scenesync/internal/core/observability/log"
	"github.com/scenesync/scenesync/internal/core/scene"
	"github.com/scenesync/scenesync/internal/core/transport"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := log.New(log.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node, err := buildNode(ctx, cfg.Transport, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error connecting transport:", err)
		os.Exit(1)
	}

	sc := scene.New(cfg.Scene.Name, node, logger)
	if err = sc.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing scene:", err)
		os.Exit(1)
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	ticker := time.NewTicker(cfg.Scene.TickInterval.Std())
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			sc.RunCycle()
		case <-stopCh:
			break loop
		}
	}

	cancel()
	sc.Shutdown()
	if err = node.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "Error closing transport:", err)
	}
}

func buildNode(ctx context.Context, cfg config.TransportConfig, logger log.Log) (transport.Node, error) {
	opts := transport.Options{
		DialTimeout:        cfg.DialTimeout.Std(),
		ReadTimeout:        cfg.ReadTimeout.Std(),
		WriteTimeout:       cfg.WriteTimeout.Std(),
		BufferSize:         cfg.BufferSize,
		QueueSize:          cfg.QueueSize,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	switch cfg.Kind {
	case "websocket":
		return transport.DialWebSocket(ctx, cfg.URL, opts, logger)
	case "quic":
		return transport.DialQUIC(ctx, cfg.Address, opts, logger)
	case "loopback":
		return transport.NewLoopback(), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/discovery"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/logging"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/poller"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the YAML config file")
	once := flag.Bool("once", false, "poll a single time and exit")
	flag.Parse()

	// Load config
	path := *configPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// The dashboard owns stdout.
	logCfg := cfg.Log
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.New(logCfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	if cfg.Poller.Password == "" {
		logger.Fatal("poller.password is required to sign in to the orders API")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := resolveBaseURL(ctx, cfg, logger)
	loc, _ := cfg.Business.Location()

	p := poller.NewPoller(poller.PollerProperty{
		Logger:   logger,
		Source:   poller.NewHTTPSource(baseURL, cfg.Poller.Username, cfg.Poller.Password),
		Alerter:  poller.NewTerminalAlerter(os.Stdout, loc, cfg.Poller.Limit),
		Interval: cfg.Poller.Interval,
		Limit:    cfg.Poller.Limit,
	})

	logger.Info("Starting order poller",
		zap.String("api", baseURL),
		zap.Duration("interval", cfg.Poller.Interval))

	if *once {
		if _, err := p.Poll(ctx); err != nil {
			logger.Fatal("Poll failed", zap.Error(err))
		}
		return
	}

	// Enter refreshes outside the timer.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Manual refresh failed", zap.Error(err))
			}
		}
	}()

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Poller stopped", zap.Error(err))
	}
	logger.Info("Order poller stopped")
}

// resolveBaseURL prefers poller.base_url, then an instance registered in
// etcd, then the locally configured server address.
func resolveBaseURL(ctx context.Context, cfg *config.Config, logger *zap.Logger) string {
	if cfg.Poller.BaseURL != "" {
		return cfg.Poller.BaseURL
	}

	local := (&discovery.ServiceInstance{Host: cfg.Server.Host, Port: cfg.Server.Port}).BaseURL()
	if len(cfg.Etcd.Endpoints) == 0 {
		return local
	}

	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, logger)
	if err != nil {
		logger.Warn("Failed to connect to etcd, using local address", zap.Error(err))
		return local
	}
	defer sd.Close()

	lookupCtx, cancel := context.WithTimeout(ctx, cfg.Etcd.DialTimeout)
	defer cancel()

	instances, err := sd.Discover(lookupCtx, cfg.Server.Name)
	if err != nil {
		logger.Warn("Service discovery failed, using local address", zap.Error(err))
		return local
	}
	logger.Info("Discovered orders API",
		zap.String("name", instances[0].Name),
		zap.String("address", instances[0].Address()),
		zap.Int("instances", len(instances)))
	return instances[0].BaseURL()
}

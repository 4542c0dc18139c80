// Package main provides the serve command for the echod server.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MohamedShabanElwa3er/echod/internal/config"
	"github.com/MohamedShabanElwa3er/echod/internal/logging"
	"github.com/MohamedShabanElwa3er/echod/internal/server"
)

// serveFlags holds the parsed serve command line.
type serveFlags struct {
	configFile string
	address    string
	maxClients int
	logLevel   string
	help       bool
}

// parseServeFlags parses the serve command arguments.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := &serveFlags{}
	fs.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	fs.StringVar(&opts.address, "address", "", "Listen address (overrides config)")
	fs.IntVar(&opts.maxClients, "max-clients", 0, "Advisory client limit (overrides config)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.help = *help || *helpLong
	return opts, nil
}

// loadServeConfig loads the configuration file (or defaults) and
// applies command-line overrides. Flags take priority over the file.
func loadServeConfig(opts *serveFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if opts.configFile != "" {
		cfg, err = config.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
	if opts.maxClients > 0 {
		cfg.Server.MaxClients = opts.maxClients
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serveCmd handles the serve command.
func serveCmd(args []string) int {
	opts, err := parseServeFlags(args)
	if err != nil {
		return 1
	}
	if opts.help {
		printServeUsage(os.Stdout)
		return 0
	}

	cfg, err := loadServeConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithReadTimeout(time.Duration(cfg.Server.ReadTimeout)),
	}

	if cfg.Metrics.Enabled {
		metrics := server.NewMetrics(nil)
		if err := metrics.Register(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register metrics: %v\n", err)
			return 1
		}
		serverOpts = append(serverOpts, server.WithMetrics(metrics))
		go serveMetrics(cfg.Metrics.Address, logger)
	}

	srv, err := server.New(cfg.Server.Address, cfg.Server.MaxClients, serverOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		return 1
	}

	// Signal shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", "signal", sig.String())
		srv.Stop()
	}()

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}

	// Drain outstanding connections before exiting
	srv.JoinWorkers()
	return 0
}

// serveMetrics exposes the Prometheus endpoint.
func serveMetrics(addr string, logger logging.Logger) {
	logger.Info("metrics endpoint listening", "address", addr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics endpoint failed", "error", err.Error())
	}
}

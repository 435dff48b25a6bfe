package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/dshills/docproc/internal/config"
	"github.com/dshills/docproc/internal/mcp"
	"github.com/dshills/docproc/internal/registry"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("docproc MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", registry.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", registry.DriverName)
		os.Exit(0)
	}

	// Log to stderr (stdout reserved for MCP protocol)
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	logger.Info("docproc MCP server starting", "version", version, "build_mode", registry.BuildMode)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create MCP server", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", "error", err)
		}
	}

	logger.Info("server stopped")
}

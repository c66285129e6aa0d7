package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/logging"
	"github.com/nhath/irfinder/internal/server"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the company resolution HTTP service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenFlag, "listen", "l", "", "listen address (overrides server.listen)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Console(cfg.LogLevel)

	if listenFlag != "" {
		cfg.Server.Listen = listenFlag
	}

	catalog, err := company.LoadCatalog(cfg.Server.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server, company.NewResolver(catalog)).Run(ctx)
}

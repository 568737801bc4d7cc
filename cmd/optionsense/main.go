package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	// Install and activate the cache generation before serving traffic
	installCtx, installCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := root.InstallCache(installCtx); err != nil {
		installCancel()
		root.Logger.Error("Cache installation failed", zap.Error(err))
		os.Exit(1)
	}
	installCancel()

	// Start the sync controller
	root.Controller.Start()

	// Start dashboard server
	listenAddr := root.Config.Server.ListenAddr
	root.Logger.Info("Starting dashboard server", zap.String("addr", listenAddr))
	go func() {
		if err := root.HTTPServer.Start(listenAddr); err != nil {
			root.Logger.Error("Dashboard server failed to start", zap.Error(err))
		}
	}()

	// Start metrics server on its own port
	metricsAddr := root.Config.Server.MetricsAddr
	go func() {
		if err := root.MetricsServer.Start(metricsAddr); err != nil {
			root.Logger.Error("Metrics server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down server...")

	// Stop the controller first so no new fetches land in the cache
	root.Controller.Stop()

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown servers
	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("Dashboard server forced to shutdown", zap.Error(err))
	}
	if err := root.MetricsServer.Stop(ctx); err != nil {
		root.Logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
}

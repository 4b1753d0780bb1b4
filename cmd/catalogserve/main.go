// Command catalogserve serves a catalog directory (products.json plus its
// images) over HTTP for developing against a remote catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"gallery/internal/logging"

	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", ".", "Catalog directory containing products.json")
	addr := flag.String("addr", "127.0.0.1:8080", "Listen address")
	delay := flag.Duration("delay", 0, "Artificial latency added to catalog responses")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger, err := logging.New(*logLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if _, err := os.Stat(*dir); err != nil {
		logger.Fatal("catalog directory not found", zap.String("dir", *dir), zap.Error(err))
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      NewRouter(Options{Dir: *dir, Delay: *delay}, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving catalog",
		zap.String("dir", *dir),
		zap.String("url", "http://"+*addr+"/"+catalogFile))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

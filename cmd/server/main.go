/*
main.go - Pricing service entry point

PURPOSE:

	Starts the quote pricing service: loads the catalog, opens the quote
	history store, serves the HTTP API and a gRPC health endpoint, and
	prunes old quotes in the background.

STARTUP SEQUENCE:
 1. Parse command-line flags
 2. Load the catalog (embedded, or -catalog override)
 3. Open the history store
 4. Create pricing service and API handler
 5. Start retention sweeper and gRPC health server
 6. Start HTTP server with graceful shutdown

COMMAND-LINE FLAGS:

	-port       HTTP server port (default: 8080)
	-grpc-port  gRPC health port (default: 0, disabled)
	-db         SQLite database path (default: quotes.db)
	            Use ":memory:" for an in-memory SQLite database,
	            "" for the plain in-memory store
	-catalog    CUE catalog file overriding the embedded one
	-retention  Quote history retention (default: 720h, 0 keeps forever)
	-origins    Comma-separated CORS origins
	-dev        Human-readable development logging

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop accepting new connections
	2. Wait for active requests to complete (30s timeout)
	3. Stop the sweeper and the gRPC server
	4. Close database connection

EXAMPLES:

	./server -db="./data/quotes.db"
	./server -db=":memory:" -grpc-port=50051
	./server -catalog=./rates-2026.cue -retention=2160h

SEE ALSO:
  - api/server.go: Router configuration
  - catalog/load.go: Catalog loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rts-ads/quote-engine/api"
	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/pricing"
	"github.com/rts-ads/quote-engine/store/memory"
	"github.com/rts-ads/quote-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	grpcPort := flag.Int("grpc-port", 0, "gRPC health port (0 disables)")
	dbPath := flag.String("db", "quotes.db", "SQLite database path (\"\" for in-memory store)")
	catalogPath := flag.String("catalog", "", "CUE catalog file (default: embedded)")
	retention := flag.Duration("retention", 30*24*time.Hour, "Quote history retention (0 keeps forever)")
	origins := flag.String("origins", "", "Comma-separated CORS origins")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	logger, err := newLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cat, err := loadCatalog(*catalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.String("path", *catalogPath), zap.Error(err))
	}

	var store pricing.Store
	if *dbPath == "" {
		store = memory.New()
		logger.Info("using in-memory quote history")
	} else {
		sq, err := sqlite.New(*dbPath)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.String("db", *dbPath), zap.Error(err))
		}
		defer sq.Close()
		store = sq
	}

	svc := pricing.NewService(pricing.NewEngine(cat), store, logger)
	handler := api.NewHandler(svc, cat, logger)

	var allowed []string
	if *origins != "" {
		allowed = strings.Split(*origins, ",")
	}
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: allowed})

	sweeper := api.NewRetentionSweeper(store, *retention, logger)
	sweeper.Start()
	defer sweeper.Stop()

	if *grpcPort > 0 {
		gs, err := startHealthServer(*grpcPort, logger)
		if err != nil {
			logger.Fatal("failed to start gRPC health server", zap.Int("port", *grpcPort), zap.Error(err))
		}
		defer gs.GracefulStop()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("pricing service started", zap.Int("port", *port), zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func startHealthServer(port int, logger *zap.Logger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}

	s := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		if err := s.Serve(lis); err != nil {
			logger.Error("gRPC health server stopped", zap.Error(err))
		}
	}()

	logger.Info("gRPC health server started", zap.Int("port", port))
	return s, nil
}

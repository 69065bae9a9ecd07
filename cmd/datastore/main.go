package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/warungos/datastore/events"
	catalog "github.com/warungos/datastore/internal/catalog/domain"
	inventory "github.com/warungos/datastore/internal/inventory/domain"
	invrepo "github.com/warungos/datastore/internal/inventory/repository"
	invcommand "github.com/warungos/datastore/internal/inventory/usecase/command"
	payment "github.com/warungos/datastore/internal/payment/domain"
	receipt "github.com/warungos/datastore/internal/receipt/domain"
	"github.com/warungos/datastore/internal/sales"
	salesdomain "github.com/warungos/datastore/internal/sales/domain"
	user "github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/logger"
	"github.com/warungos/datastore/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "datastore")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting datastore service")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	}

	// Connect to database
	client, err := database.Open(database.LoadConfig())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer client.Close()

	// Run migrations in dependency order
	ctx := context.Background()
	err = client.Migrate(ctx,
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&inventory.Inventory{},
		&salesdomain.Sale{},
		&salesdomain.SaleItem{},
		&payment.Payment{},
		&inventory.StockMovement{},
		&receipt.Template{},
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher is optional; without brokers events are dropped
	var sink events.Sink = events.NoopSink{}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err := events.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to Kafka")
		}
		defer publisher.Close()
		sink = publisher
	}

	// Initialize command handlers with Wire DI
	saleHandlers, err := sales.InitializeCommandHandlers(client.DB(), client, sink)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize sale handlers")
	}
	stockRepo := invrepo.NewGormInventoryRepository(client.DB())
	movementRepo := invrepo.NewGormMovementRepository(client.DB())
	ops := &opsHandler{
		sales:   saleHandlers,
		restock: invcommand.NewRestockProductHandler(client, stockRepo, movementRepo, sink),
		adjust:  invcommand.NewAdjustStockHandler(client, stockRepo, movementRepo, sink),
	}

	logger.Logger.Info().Msg("Command handlers initialized")

	// Start HTTP server for health, metrics and back-office commands
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(client, ops, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down...")

	if tp != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to flush traces")
		}
	}
}

func startHTTPServer(client *database.Client, ops *opsHandler, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register back-office command routes
	ops.registerRoutes(router)

	// Health check endpoint
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

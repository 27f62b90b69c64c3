package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-orders/internal/config"
	"restaurant-orders/internal/database"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/messaging"
	"restaurant-orders/internal/notification"
	"restaurant-orders/internal/payment"
	"restaurant-orders/internal/pos"
	"restaurant-orders/internal/services/customer"
	"restaurant-orders/internal/services/order"
	"restaurant-orders/internal/services/restaurant"
)

func main() {
	// Parse command line flags
	var (
		mode     = flag.String("mode", "", "Service mode (order-service, notification-subscriber, pos-diagnostics)")
		port     = flag.Int("port", 3000, "HTTP port")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	// Validate required mode flag
	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	// Route to appropriate service
	switch *mode {
	case "order-service":
		if err := runOrderService(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", "Order service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	case "pos-diagnostics":
		if err := runPOSDiagnostics(ctx, log); err != nil {
			log.Error("service_failed", "POS diagnostics failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runOrderService runs the order placement API
func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	// Initialize database
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	// Run database migrations
	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize messaging
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	// Payment gateway from USAEPAY_* environment
	payCfg, err := payment.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load payment settings: %w", err)
	}
	gateway := payment.NewGateway(payCfg, log)

	// POS backends from SUPERMENU_* / CHEERSFOOD_* environment
	posManager, err := pos.NewManagerFromEnv(log)
	if err != nil {
		return fmt.Errorf("failed to configure POS backends: %w", err)
	}

	// SMS confirmations from SMS_* environment
	smsCfg, err := notification.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load sms settings: %w", err)
	}
	smsSender := notification.NewSender(smsCfg, publisher)

	// Stores and services
	customerStore := customer.NewStore(db)
	restaurantStore := restaurant.NewStore(db)
	orderStore := order.NewStore(db)

	orderService := order.NewService(orderStore, customerStore, restaurantStore, gateway, posManager, smsSender, log)
	orderHandler := order.NewHandler(orderService, db, log)

	restaurantService := restaurant.NewService(restaurantStore, customerStore, log)
	restaurantHandler := restaurant.NewHandler(restaurantService, restaurantStore, customerStore, log)

	// Setup HTTP server
	mux := http.NewServeMux()
	orderHandler.RegisterRoutes(mux)
	restaurantHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("service_started", fmt.Sprintf("Order Service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber consumes queued SMS confirmations
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.SMSQueue, "sms-subscriber", prefetch)
	subscriber := notification.NewSubscriber(consumer, log)

	return subscriber.Start(ctx)
}

// runPOSDiagnostics probes every configured POS backend once and exits
func runPOSDiagnostics(ctx context.Context, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	posManager, err := pos.NewManagerFromEnv(log)
	if err != nil {
		return fmt.Errorf("failed to configure POS backends: %w", err)
	}

	results := posManager.TestAllConnections(ctx)
	failures := 0
	for _, sys := range posManager.Systems() {
		if err := results[sys]; err != nil {
			failures++
			fmt.Printf("❌ %s: %v\n", sys, err)
			log.Error("pos_connection_failed", "POS connection test failed", requestID, err, map[string]interface{}{
				"pos_system": string(sys),
			})
		} else {
			fmt.Printf("✅ %s: ok\n", sys)
			log.Info("pos_connection_ok", "POS connection test passed", requestID, map[string]interface{}{
				"pos_system": string(sys),
			})
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d POS backend(s) unreachable", failures)
	}
	return nil
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/cart"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/config"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/db"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/events"
	httpserver "github.com/Sudarshan-812/tiffintales-sub000/internal/http"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/seller"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/sequence"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[order-service] ", log.LstdFlags|log.Lshortfile)

	if err := db.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	// DB
	database := db.MustOpen(cfg.DatabaseURL)
	orderRepo := order.NewRepository(database)
	seqRepo := sequence.NewRepository(database)

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("open pgx pool: %v", err)
	}
	defer pool.Close()
	sellerRepo := seller.NewPostgresRepository(pool)

	// RabbitMQ
	rabbitConn := events.MustDial(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, seqRepo)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}
	defer publisher.Close()

	feed := events.NewFeed(cfg.RabbitURL, logger)

	// Domain
	carts := cart.NewStore()
	pricer := cart.NewPricer(sellerRepo, logger)
	orderSvc := order.NewService(orderRepo, carts, publisher, logger)

	// HTTP
	router := httpserver.NewRouter(
		httpserver.NewCartHandler(carts, pricer),
		httpserver.NewOrderHandler(orderSvc, orderRepo),
		httpserver.NewSellerHandler(sellerRepo),
		httpserver.NewFeedHandler(feed, logger),
	)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		// No WriteTimeout: the status feed holds its response open for
		// the lifetime of the buyer's screen.
	}

	go func() {
		logger.Printf("order-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

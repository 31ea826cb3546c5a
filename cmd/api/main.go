package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/rail_booking/internal/adapter/handler"
	"github.com/srgjo27/rail_booking/internal/adapter/publisher"
	"github.com/srgjo27/rail_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/rail_booking/internal/adapter/repository/redisrepo"
	"github.com/srgjo27/rail_booking/internal/adapter/repository/sqlrepo"
	"github.com/srgjo27/rail_booking/internal/core/ports"
	"github.com/srgjo27/rail_booking/internal/core/services"
	"github.com/srgjo27/rail_booking/internal/platform/config"
	"github.com/srgjo27/rail_booking/internal/platform/database"
	"github.com/srgjo27/rail_booking/internal/platform/logging"
)

type stores struct {
	inventory ports.TrainInventory
	catalog   ports.TrainCatalog
	ledger    ports.BookingLedger
	sold      ports.SoldSeatCounter
	external  ports.SeededInventory
	closers   []func() error
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// run owns every resource, so deferred closers run on all exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logging.New(cfg.LogLevel)

	st, err := openStores(cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(); err != nil {
				log.Warn("close failed", "err", err)
			}
		}
	}()

	opts := []services.BookingOption{services.WithCompensationTimeout(cfg.CompensationTimeout)}
	if cfg.RabbitMQURL != "" {
		rabbit := publisher.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.PublishTimeout, log)
		events := publisher.NewAsyncPublisher(rabbit, cfg.PublishQueueSize, cfg.PublishTimeout, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.PublishTimeout)
			defer cancel()
			if err := events.Close(ctx); err != nil {
				log.Warn("pending booking events dropped", "err", err)
			}
		}()
		opts = append(opts, services.WithPublisher(events))
	}

	bookingService := services.NewBookingService(st.inventory, st.ledger, log, opts...)
	trainService := services.NewTrainService(st.catalog, st.external, log)

	if _, err := trainService.WarmInventory(context.Background(), st.sold); err != nil {
		return fmt.Errorf("seed redis inventory: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 5 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	handler.RegisterRoutes(e,
		handler.NewBookingHandler(bookingService),
		handler.NewTrainHandler(trainService),
	)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "store", cfg.StoreBackend, "inventory", cfg.InventoryBackend)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down server")
	case err := <-serverErr:
		return fmt.Errorf("server startup failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "err", err)
	}

	log.Info("server exiting")
	return nil
}

func openStores(cfg config.Config, log *slog.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		mem := memory.NewStore()
		st.inventory, st.catalog, st.ledger, st.sold = mem, mem, mem, mem
	default:
		db, dialect, err := openDB(cfg, log)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, db.Close)

		trains := sqlrepo.NewTrainRepository(db, dialect)
		st.inventory, st.catalog = trains, trains
		bookings := sqlrepo.NewBookingRepository(db, dialect)
		st.ledger, st.sold = bookings, bookings
	}

	if cfg.InventoryBackend == config.InventoryRedis {
		log.Info("connecting to redis", "addr", cfg.Redis.Addr)

		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			for _, closeFn := range st.closers {
				_ = closeFn()
			}
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		st.closers = append(st.closers, client.Close)

		inv := redisrepo.NewTrainInventory(client)
		st.inventory, st.external = inv, inv
	}

	return st, nil
}

func openDB(cfg config.Config, log *slog.Logger) (*sql.DB, sqlrepo.Dialect, error) {
	dbConfig := database.Config{
		Host:       cfg.DB.Host,
		Port:       cfg.DB.Port,
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		DBName:     cfg.DB.Name,
		MaxRetries: cfg.DB.MaxRetries,
	}

	if cfg.StoreBackend == config.BackendMySQL {
		db, err := database.NewMySQLDB(dbConfig, log)
		return db, sqlrepo.MySQL, err
	}

	db, err := database.NewPostgresDB(dbConfig, log)
	return db, sqlrepo.Postgres, err
}

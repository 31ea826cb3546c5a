package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

type Config struct {
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	MaxRetries int
}

func NewPostgresDB(cfg Config, log *slog.Logger) (*sql.DB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	return open("postgres", connStr, cfg.MaxRetries, log)
}

func NewMySQLDB(cfg Config, log *slog.Logger) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
	}
	// parseTime=true -> DATETIME -> time.Time
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.Host, cfg.Port, cfg.DBName)

	return open("mysql", dsn, cfg.MaxRetries, log)
}

func open(driver, dsn string, maxRetries int, log *slog.Logger) (*sql.DB, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		log.Info("connecting to database", "driver", driver, "attempt", i, "max_attempts", maxRetries)

		db, err := sql.Open(driver, dsn)
		if err == nil {
			err = ping(db)
			if err != nil {
				_ = db.Close()
			}
		}

		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(25)
			db.SetConnMaxLifetime(5 * time.Minute)

			log.Info("database connected", "driver", driver)
			return db, nil
		}

		lastErr = err
		if i < maxRetries {
			log.Warn("database not ready yet, waiting 2 seconds", "driver", driver, "err", err)
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("connect %s: %w", driver, lastErr)
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendMemory   = "memory"

	InventoryStore = "store"
	InventoryRedis = "redis"
)

type Config struct {
	Port                string
	LogLevel            string
	StoreBackend        string
	InventoryBackend    string
	DB                  DBConfig
	Redis               RedisConfig
	RabbitMQURL         string
	PublishTimeout      time.Duration
	PublishQueueSize    int
	CompensationTimeout time.Duration
}

type DBConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	MaxRetries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads .env from the working directory when present, then the
// environment. Process variables win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	backend := strings.ToLower(getenv("STORE_BACKEND", BackendPostgres))
	defaultDBPort := "5432"
	defaultDBUser := "postgres"
	if backend == BackendMySQL {
		defaultDBPort = "3306"
		defaultDBUser = "root"
	}

	cfg := Config{
		Port:             getenv("APP_PORT", "8080"),
		LogLevel:         strings.ToLower(getenv("LOG_LEVEL", "info")),
		StoreBackend:     backend,
		InventoryBackend: strings.ToLower(getenv("INVENTORY_BACKEND", InventoryStore)),
		DB: DBConfig{
			Host:       getenv("DB_HOST", "localhost"),
			Port:       getenv("DB_PORT", defaultDBPort),
			User:       getenv("DB_USER", defaultDBUser),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getenv("DB_NAME", "rail_booking"),
			MaxRetries: envInt("DB_MAX_RETRIES", 10),
		},
		Redis: RedisConfig{
			Addr:     redisAddr(),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		RabbitMQURL:         firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		PublishTimeout:      envDur("PUBLISH_TIMEOUT", 3*time.Second),
		PublishQueueSize:    envInt("PUBLISH_QUEUE_SIZE", 256),
		CompensationTimeout: envDur("COMPENSATION_TIMEOUT", 5*time.Second),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres, BackendMySQL, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.InventoryBackend {
	case InventoryStore, InventoryRedis:
	default:
		return fmt.Errorf("unknown INVENTORY_BACKEND %q", c.InventoryBackend)
	}

	if c.DB.MaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be at least 1")
	}

	if c.PublishQueueSize < 1 {
		return fmt.Errorf("PUBLISH_QUEUE_SIZE must be at least 1")
	}

	return nil
}

func redisAddr() string {
	host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return getenv("REDIS_ADDR", "localhost:6379")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                  = "4000"
	defaultGRPCPort              = "50051"
	defaultReadTimeout           = 15 * time.Second
	defaultWriteTimeout          = 90 * time.Second
	defaultIdleTimeout           = 120 * time.Second
	defaultRequestTimeout        = 80 * time.Second
	defaultERPURL                = "http://localhost:8069"
	defaultERPCallTimeout        = 30 * time.Second
	defaultVariantLookupAttempts = 3
	defaultVariantLookupDelay    = 250 * time.Millisecond
	defaultSMTPPort              = 587
	defaultMailFrom              = "no-reply@example.com"
	defaultProductsFile          = "src/data/products.json"
	defaultWorkerCount           = 4
	defaultQueueSize             = 1000
	defaultRateLimitPerMinute    = 120
	defaultIdempotencyTTL        = 24 * time.Hour
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig
	ERP         ERPConfig
	Mail        MailConfig
	Storage     StorageConfig
	Workers     WorkerConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
}

type ServerConfig struct {
	Port           string
	GRPCPort       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// ERPConfig holds the ERP endpoint, credentials and call policy.
type ERPConfig struct {
	URL                   string
	Database              string
	Login                 string
	APIKey                string
	CallTimeout           time.Duration
	SessionTTL            time.Duration
	VariantLookupAttempts int
	VariantLookupDelay    time.Duration
}

// MailConfig is empty-hosted when outbound mail is disabled.
type MailConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
}

// StorageConfig lists optional backing stores; empty values fall back to
// in-process memory.
type StorageConfig struct {
	MySQLDSN     string
	RedisAddr    string
	ProductsFile string
}

type WorkerConfig struct {
	Count     int
	QueueSize int
}

type RateLimitConfig struct {
	PerMinute int
}

type IdempotencyConfig struct {
	Header string
	TTL    time.Duration
}

// Load reads configuration from the environment with defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", defaultPort),
			GRPCPort:       getEnv("GRPC_PORT", defaultGRPCPort),
			ReadTimeout:    getDuration("HTTP_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   getDuration("HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    getDuration("HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout: getDuration("HTTP_REQUEST_TIMEOUT", defaultRequestTimeout),
		},
		ERP: ERPConfig{
			URL:                   getEnv("ERP_URL", defaultERPURL),
			Database:              os.Getenv("ERP_DB"),
			Login:                 os.Getenv("ERP_LOGIN"),
			APIKey:                os.Getenv("ERP_API_KEY"),
			CallTimeout:           getDuration("ERP_CALL_TIMEOUT", defaultERPCallTimeout),
			SessionTTL:            getDuration("ERP_SESSION_TTL", 0),
			VariantLookupAttempts: getInt("ERP_VARIANT_LOOKUP_ATTEMPTS", defaultVariantLookupAttempts),
			VariantLookupDelay:    getDuration("ERP_VARIANT_LOOKUP_DELAY", defaultVariantLookupDelay),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", defaultSMTPPort),
			Secure:   ParseBool("SMTP_SECURE", false),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("MAIL_FROM", defaultMailFrom),
		},
		Storage: StorageConfig{
			MySQLDSN:     os.Getenv("MYSQL_DSN"),
			RedisAddr:    os.Getenv("REDIS_ADDR"),
			ProductsFile: getEnv("PRODUCTS_FILE", defaultProductsFile),
		},
		Workers: WorkerConfig{
			Count:     getInt("WORKER_COUNT", defaultWorkerCount),
			QueueSize: getInt("QUEUE_SIZE", defaultQueueSize),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getInt("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute),
		},
		Idempotency: IdempotencyConfig{
			Header: getEnv("IDEMPOTENCY_HEADER", "Idempotency-Key"),
			TTL:    getDuration("IDEMPOTENCY_TTL", defaultIdempotencyTTL),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []string
	if strings.TrimSpace(c.ERP.URL) == "" {
		problems = append(problems, "ERP_URL must not be empty")
	}
	if c.ERP.Database == "" || c.ERP.Login == "" || c.ERP.APIKey == "" {
		problems = append(problems, "ERP_DB, ERP_LOGIN and ERP_API_KEY are required")
	}
	if c.Workers.Count < 1 {
		problems = append(problems, "WORKER_COUNT must be at least 1")
	}
	if c.Workers.QueueSize < 1 {
		problems = append(problems, "QUEUE_SIZE must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration assembled from the environment.
type Config struct {
	Server   Server
	Log      Log
	Database Database
	Redis    RedisConfig
	Kafka    Kafka
	Location Location
	Tracing  Tracing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	ShutdownTimeout time.Duration
	TxTimeout       time.Duration
}

// Log selects the slog handler and level.
type Log struct {
	Level  string
	Format string // json or text
}

// Database configures PostgreSQL. An empty URL selects the in-memory stores.
type Database struct {
	URL             string
	PingTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

// RedisConfig configures the location cache. Empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit sink. No brokers keeps audit events in memory.
type Kafka struct {
	Brokers    []string
	AuditTopic string
	ClientID   string
	Partitions int32
	Replicas   int16
}

// Location configures the metadata lookup client. Empty BaseURL disables
// resolution; addresses then keep their ids only.
type Location struct {
	BaseURL         string
	Timeout         time.Duration
	CacheTTL        time.Duration
	BreakerCooldown time.Duration
}

// Tracing configures the OTLP exporter. Empty Endpoint keeps the no-op tracer.
type Tracing struct {
	Endpoint    string
	ServiceName string
	Insecure    bool
	SampleRatio float64
}

// UsePostgres reports whether the PostgreSQL stores are selected.
func (c Config) UsePostgres() bool {
	return c.Database.URL != ""
}

// FromEnv builds the configuration from environment variables so main stays
// lean. Call godotenv.Load first to pick up a local .env.
func FromEnv() (Config, error) {
	var errs []error
	r := reader{errs: &errs}

	cfg := Config{
		Server: Server{
			Addr:            r.str("DEMOGRAPHICS_ADDR", ":8080"),
			Environment:     r.str("APP_ENV", "development"),
			ShutdownTimeout: r.dur("SHUTDOWN_TIMEOUT", 10*time.Second),
			TxTimeout:       r.dur("TX_TIMEOUT", 5*time.Second),
		},
		Log: Log{
			Level:  r.str("LOG_LEVEL", "info"),
			Format: r.str("LOG_FORMAT", "json"),
		},
		Database: Database{
			URL:             r.str("DATABASE_URL", ""),
			PingTimeout:     r.dur("DATABASE_PING_TIMEOUT", 2*time.Second),
			MaxOpenConns:    r.int("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    r.int("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: r.dur("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: r.dur("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
			AutoMigrate:     r.bool("DATABASE_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          r.str("REDIS_URL", ""),
			PoolSize:     r.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.dur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.dur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.dur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    r.list("KAFKA_BROKERS"),
			AuditTopic: r.str("KAFKA_AUDIT_TOPIC", "demographics.audit"),
			ClientID:   r.str("KAFKA_CLIENT_ID", "demographics"),
			Partitions: int32(r.int("KAFKA_AUDIT_PARTITIONS", 3)),
			Replicas:   int16(r.int("KAFKA_AUDIT_REPLICAS", 1)),
		},
		Location: Location{
			BaseURL:         strings.TrimRight(r.str("LOCATION_BASE_URL", ""), "/"),
			Timeout:         r.dur("LOCATION_TIMEOUT", 2*time.Second),
			CacheTTL:        r.dur("LOCATION_CACHE_TTL", 10*time.Minute),
			BreakerCooldown: r.dur("LOCATION_BREAKER_COOLDOWN", 30*time.Second),
		},
		Tracing: Tracing{
			Endpoint:    r.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: r.str("OTEL_SERVICE_NAME", "demographics"),
			Insecure:    r.bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: r.float("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would fail later at startup.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("DEMOGRAPHICS_ADDR is required"))
	}
	if c.Server.TxTimeout <= 0 {
		errs = append(errs, errors.New("TX_TIMEOUT must be positive"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}
	if c.Database.URL != "" {
		if c.Database.MaxOpenConns < 1 {
			errs = append(errs, errors.New("DATABASE_MAX_OPEN_CONNS must be >= 1"))
		}
		if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
			errs = append(errs, errors.New("DATABASE_MAX_IDLE_CONNS must be <= DATABASE_MAX_OPEN_CONNS"))
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.AuditTopic == "" {
		errs = append(errs, errors.New("KAFKA_AUDIT_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_TRACES_SAMPLE_RATIO must be within [0, 1]"))
	}
	return errors.Join(errs...)
}

type reader struct {
	errs *[]error
}

func (r reader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r reader) list(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r reader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return i
}

func (r reader) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}

func (r reader) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: invalid number %q", key, v))
		return def
	}
	return f
}

func (r reader) dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

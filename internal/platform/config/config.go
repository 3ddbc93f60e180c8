package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	liststrings "poltem/pkg/platform/strings"
)

// Identity backends.
const (
	IdentityLocal  = "local"
	IdentityGoTrue = "gotrue"
)

// Record store backends.
const (
	RecordsMemory    = "memory"
	RecordsPostgres  = "postgres"
	RecordsPostgREST = "postgrest"
)

// Audit sinks.
const (
	AuditMemory   = "memory"
	AuditPostgres = "postgres"
	AuditKafka    = "kafka"
)

// Server captures process-level configuration.
type Server struct {
	Addr             string
	Environment      string
	LogLevel         string
	AdminToken       string
	IdentifierDomain string
	RequestTimeout   time.Duration

	Identity      IdentityConfig
	Records       RecordConfig
	Redis         RedisConfig
	Audit         AuditConfig
	Participation ParticipationConfig
	Session       SessionConfig
	RateLimit     RateLimitConfig
}

// IdentityConfig selects and configures the Session/Identity collaborator.
type IdentityConfig struct {
	Backend             string
	SupabaseURL         string
	SupabaseAnonKey     string
	JWTSigningKey       string
	AccessTokenTTL      time.Duration
	OTPTTL              time.Duration
	CollaboratorTimeout time.Duration
}

// RecordConfig selects the profiles/surveys store.
type RecordConfig struct {
	Backend     string
	DatabaseURL string
}

// RedisConfig configures the optional Redis client. An empty URL keeps all
// Redis-backed components on their in-memory variants.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig selects where audit events go.
type AuditConfig struct {
	Sink         string
	KafkaBrokers []string
	Topic        string
	BufferSize   int
}

// ParticipationConfig bounds how long an opened participation flow lives.
type ParticipationConfig struct {
	TTL time.Duration
}

// RateLimitConfig sets the per-minute budgets of each endpoint class.
type RateLimitConfig struct {
	Enabled        bool
	AuthPerMinute  int
	WritePerMinute int
	ReadPerMinute  int
}

// SessionConfig tunes the principal resolver.
type SessionConfig struct {
	AccountCacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:             getEnv("POLTEM_ADDR", ":8080"),
		Environment:      getEnv("POLTEM_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		IdentifierDomain: getEnv("IDENTIFIER_DOMAIN", "poltemakademi.com"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 30*time.Second),
		Identity: IdentityConfig{
			Backend:         getEnv("IDENTITY_BACKEND", IdentityLocal),
			SupabaseURL:     os.Getenv("SUPABASE_URL"),
			SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
			// Use a default for development; override in production.
			JWTSigningKey:       getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AccessTokenTTL:      getDuration("ACCESS_TOKEN_TTL", time.Hour),
			OTPTTL:              getDuration("OTP_TTL", 10*time.Minute),
			CollaboratorTimeout: getDuration("COLLABORATOR_TIMEOUT", 10*time.Second),
		},
		Records: RecordConfig{
			Backend:     getEnv("RECORD_BACKEND", RecordsMemory),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			Sink:         getEnv("AUDIT_SINK", AuditMemory),
			KafkaBrokers: liststrings.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			Topic:        getEnv("AUDIT_TOPIC", "poltem.audit"),
			BufferSize:   getInt("AUDIT_BUFFER_SIZE", 1024),
		},
		Participation: ParticipationConfig{
			TTL: getDuration("PARTICIPATION_TTL", 2*time.Hour),
		},
		Session: SessionConfig{
			AccountCacheTTL: getDuration("ACCOUNT_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getBool("RATE_LIMIT_ENABLED", true),
			AuthPerMinute:  getInt("RATE_LIMIT_AUTH_PER_MINUTE", 10),
			WritePerMinute: getInt("RATE_LIMIT_WRITE_PER_MINUTE", 50),
			ReadPerMinute:  getInt("RATE_LIMIT_READ_PER_MINUTE", 100),
		},
	}
}

// Validate reports combinations that cannot start.
func (s Server) Validate() error {
	var errs []error
	switch s.Identity.Backend {
	case IdentityLocal:
	case IdentityGoTrue:
		if s.Identity.SupabaseURL == "" || s.Identity.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("IDENTITY_BACKEND=gotrue requires SUPABASE_URL and SUPABASE_ANON_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_BACKEND %q", s.Identity.Backend))
	}

	switch s.Records.Backend {
	case RecordsMemory:
	case RecordsPostgres:
		if s.Records.DatabaseURL == "" {
			errs = append(errs, errors.New("RECORD_BACKEND=postgres requires DATABASE_URL"))
		}
	case RecordsPostgREST:
		if s.Identity.SupabaseURL == "" || s.Identity.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("RECORD_BACKEND=postgrest requires SUPABASE_URL and SUPABASE_ANON_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RECORD_BACKEND %q", s.Records.Backend))
	}

	switch s.Audit.Sink {
	case AuditMemory:
	case AuditPostgres:
		if s.Records.DatabaseURL == "" {
			errs = append(errs, errors.New("AUDIT_SINK=postgres requires DATABASE_URL"))
		}
	case AuditKafka:
		if len(s.Audit.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("AUDIT_SINK=kafka requires KAFKA_BROKERS"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUDIT_SINK %q", s.Audit.Sink))
	}

	if len(s.Identity.JWTSigningKey) < 16 {
		errs = append(errs, errors.New("JWT_SIGNING_KEY must be at least 16 bytes"))
	}
	if s.Participation.TTL <= 0 {
		errs = append(errs, errors.New("PARTICIPATION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether POLTEM_ENV is "production".
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getDuration accepts Go duration syntax ("90s", "2h"); bare integers are
// read as seconds.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

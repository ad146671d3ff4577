package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Store         StoreConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"PETPARADISE_APP_ENV" required:"true"`
	Port            string        `envconfig:"PETPARADISE_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"PETPARADISE_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"PETPARADISE_LOG_WARN_STACK" default:"false"`
	CORSOrigins     []string      `envconfig:"PETPARADISE_CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"PETPARADISE_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects the persistence backend. Postgres and SQLite go through
// GORM; Mongo uses the document driver directly.
type StoreConfig struct {
	Driver string `envconfig:"PETPARADISE_STORE_DRIVER" default:"postgres"`
	DSN    string `envconfig:"PETPARADISE_DB_DSN"`

	MaxOpenConns    int           `envconfig:"PETPARADISE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PETPARADISE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PETPARADISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PETPARADISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"PETPARADISE_AUTO_MIGRATE" default:"false"`

	MongoURI         string        `envconfig:"PETPARADISE_MONGO_URI"`
	MongoDatabase    string        `envconfig:"PETPARADISE_MONGO_DATABASE" default:"petparadise"`
	MongoMaxPoolSize uint64        `envconfig:"PETPARADISE_MONGO_MAX_POOL_SIZE" default:"50"`
	MongoTimeout     time.Duration `envconfig:"PETPARADISE_MONGO_TIMEOUT" default:"10s"`
}

func (s StoreConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

func (s StoreConfig) IsMongo() bool {
	return s.NormalizedDriver() == StoreDriverMongo
}

func (s *StoreConfig) validate() error {
	switch s.NormalizedDriver() {
	case StoreDriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStoreDriver, StoreDriverPostgres)
		}
	case StoreDriverSQLite:
		if s.DSN == "" {
			s.DSN = "file:petparadise.db?_foreign_keys=on"
		}
	case StoreDriverMongo:
		if s.MongoURI == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvStoreDriver, StoreDriverMongo)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
	}
	return nil
}

// RedisConfig is optional. Leaving both URL and Address empty disables the
// cart cache, idempotency keys and auth rate limiting.
type RedisConfig struct {
	URL            string        `envconfig:"PETPARADISE_REDIS_URL"`
	Address        string        `envconfig:"PETPARADISE_REDIS_ADDR"`
	Password       string        `envconfig:"PETPARADISE_REDIS_PASSWORD"`
	DB             int           `envconfig:"PETPARADISE_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"PETPARADISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"PETPARADISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"PETPARADISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"PETPARADISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"PETPARADISE_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"PETPARADISE_IDEMPOTENCY_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"PETPARADISE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PETPARADISE_JWT_ISSUER" default:"petparadise"`
	ExpirationMinutes int    `envconfig:"PETPARADISE_JWT_EXPIRATION_MINUTES" default:"60"`
}

func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PETPARADISE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PETPARADISE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PETPARADISE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PETPARADISE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PETPARADISE_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig holds the credentials used to seed the first admin account.
type AdminConfig struct {
	Name             string `envconfig:"PETPARADISE_ADMIN_NAME" default:"Admin"`
	Email            string `envconfig:"PETPARADISE_ADMIN_EMAIL" default:"admin@admin.com"`
	Password         string `envconfig:"PETPARADISE_ADMIN_PASSWORD"`
	BootstrapOnStart bool   `envconfig:"PETPARADISE_ADMIN_BOOTSTRAP_ON_START" default:"false"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"PETPARADISE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"PETPARADISE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"PETPARADISE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"PETPARADISE_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"PETPARADISE_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"PETPARADISE_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	MaxRetries      int           `envconfig:"PETPARADISE_CART_MAX_RETRIES" default:"5"`
	MaxLineQuantity int           `envconfig:"PETPARADISE_CART_MAX_LINE_QUANTITY" default:"99"`
	CacheTTL        time.Duration `envconfig:"PETPARADISE_CART_CACHE_TTL" default:"5m"`
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type WooConfig struct {
	BaseURL        string        `env:"BASE_URL" env-required:"true"`
	ConsumerKey    string        `env:"CONSUMER_KEY" env-required:"true"`
	ConsumerSecret string        `env:"CONSUMER_SECRET" env-required:"true"`
	Timeout        time.Duration `env:"TIMEOUT" env-default:"15s"`
}

// BaserowConfig is optional. Without a token the mirror tables live in memory.
type BaserowConfig struct {
	BaseURL          string        `env:"BASE_URL" env-default:"https://api.baserow.io"`
	Token            string        `env:"TOKEN"`
	OrdersTableID    int64         `env:"ORDERS_TABLE_ID"`
	CustomersTableID int64         `env:"CUSTOMERS_TABLE_ID"`
	Timeout          time.Duration `env:"TIMEOUT" env-default:"10s"`
}

func (b BaserowConfig) Enabled() bool { return b.Token != "" }

type RetryConfig struct {
	Max     int           `env:"MAX" env-default:"3"`
	WaitMin time.Duration `env:"WAIT_MIN" env-default:"500ms"`
	WaitMax time.Duration `env:"WAIT_MAX" env-default:"5s"`
}

type SyncConfig struct {
	OrdersEvery    time.Duration `env:"ORDERS_EVERY" env-default:"5m"`
	CustomersEvery time.Duration `env:"CUSTOMERS_EVERY" env-default:"10m"`
	PageSize       int           `env:"PAGE_SIZE" env-default:"50"`
	RunOnStart     bool          `env:"RUN_ON_START" env-default:"true"`
	Disabled       bool          `env:"DISABLED" env-default:"false"`
}

type CacheConfig struct {
	CategoriesTTL time.Duration `env:"CATEGORIES_TTL" env-default:"10m"`
	VariationsTTL time.Duration `env:"VARIATIONS_TTL" env-default:"5m"`
	Size          int           `env:"SIZE" env-default:"1024"`
}

type AuthConfig struct {
	Username     string        `env:"USERNAME" env-required:"true"`
	PasswordHash string        `env:"PASSWORD_HASH" env-required:"true"`
	JWTSecret    string        `env:"JWT_SECRET" env-required:"true"`
	AccessTTL    time.Duration `env:"ACCESS_TTL" env-default:"15m"`
	RefreshTTL   time.Duration `env:"REFRESH_TTL" env-default:"168h"`
}

type RateLimitConfig struct {
	PerSecond float64 `env:"PER_SECOND" env-default:"10"`
	Burst     int     `env:"BURST" env-default:"30"`
}

type Config struct {
	AppEnv            string `env:"APP_ENV" env-default:"development"`
	Port              int    `env:"PORT" env-default:"8080"`
	DatabaseDSN       string `env:"DB_DSN"`
	WalkInEmailDomain string `env:"WALKIN_EMAIL_DOMAIN" env-default:"pos.invalid"`

	Woo       WooConfig       `env-prefix:"WOO_"`
	Baserow   BaserowConfig   `env-prefix:"BASEROW_"`
	Retry     RetryConfig     `env-prefix:"RETRY_"`
	Sync      SyncConfig      `env-prefix:"SYNC_"`
	Cache     CacheConfig     `env-prefix:"CACHE_"`
	Auth      AuthConfig      `env-prefix:"POS_"`
	RateLimit RateLimitConfig `env-prefix:"RATE_LIMIT_"`
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "production" || env == "prod"
}

// Read parses the process environment. The caller loads .env beforehand.
func Read() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read env variables: %w", err)
	}
	if cfg.Sync.PageSize <= 0 || cfg.Sync.PageSize > 100 {
		return Config{}, fmt.Errorf("SYNC_PAGE_SIZE must be within 1..100, got %d", cfg.Sync.PageSize)
	}
	if cfg.Baserow.Enabled() && (cfg.Baserow.OrdersTableID <= 0 || cfg.Baserow.CustomersTableID <= 0) {
		return Config{}, fmt.Errorf("BASEROW_ORDERS_TABLE_ID and BASEROW_CUSTOMERS_TABLE_ID are required with BASEROW_TOKEN")
	}
	return cfg, nil
}

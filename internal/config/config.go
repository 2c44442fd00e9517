package config

import (
	"flag"
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/hengadev/errsx"
	"github.com/joho/godotenv"
)

const (
	DefaultAuthSecret   = "dev-secret-key"
	DefaultBaseURL      = "localhost:8081"
	DefaultSessionTTL   = 24 * time.Hour
	DefaultLogLevel     = "info"
	DefaultMaxPageLimit = 100
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`

	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	SessionTTL   time.Duration `env:"SESSION_TTL"`
	LogLevel     string        `env:"LOG_LEVEL"`
	MaxPageLimit int           `env:"MAX_PAGE_LIMIT"`

	// ServerURL вычисляется из BaseURL и EnableHTTPS
	ServerURL string `env:"-"`
}

// FromEnv читает .env и переменные окружения без разбора флагов.
func FromEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)
	cfg.applyDefaults()
	return cfg
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "включить HTTPS (secure cookie)")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "срок жизни сессии")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "уровень логирования: debug|info|warn|error")
	flag.IntVar(&cfg.MaxPageLimit, "max-page-limit", cfg.MaxPageLimit, "максимальный размер страницы списка")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.AuthSecret == "" {
		c.AuthSecret = DefaultAuthSecret
	}
	// BaseURL должен быть в виде "address:port" (без схемы и пути), иначе берём дефолт
	if !hostPortRe.MatchString(c.BaseURL) {
		c.BaseURL = DefaultBaseURL
	}
	if c.EnableHTTPS {
		c.ServerURL = "https://" + c.BaseURL
	} else {
		c.ServerURL = "http://" + c.BaseURL
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MaxPageLimit == 0 {
		c.MaxPageLimit = DefaultMaxPageLimit
	}
}

// Validate проверяет значения, которые нельзя молча заменить дефолтом.
func (c *Config) Validate() error {
	errs := errsx.Map{}

	if c.SessionTTL < 0 {
		errs.Set("sessionTTL", fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs.Set("logLevel", fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.MaxPageLimit < 1 {
		errs.Set("maxPageLimit", fmt.Errorf("max page limit must be at least 1, got %d", c.MaxPageLimit))
	}
	if c.EnableHTTPS && c.AuthSecret == DefaultAuthSecret {
		errs.Set("authSecret", "default auth secret must not be used with https")
	}

	return errs.AsError()
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends accepted by StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Storage StorageConfig
	Portal  PortalConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig holds the inputs of base URL resolution, see ResolveBaseURL.
type APIConfig struct {
	URLOverride    string        `env:"CAMPUS_API_URL"`
	PublicAPIURL   string        `env:"NEXT_PUBLIC_API_URL"`
	PageBackendURL string        `env:"CAMPUS_BACKEND_URL"`
	PageHost       string        `env:"CAMPUS_PAGE_HOST"`
	PageOrigin     string        `env:"CAMPUS_PAGE_ORIGIN"`
	Timeout        time.Duration `env:"CAMPUS_API_TIMEOUT, default=0s"`
}

type StorageConfig struct {
	Backend  string        `env:"STORAGE_BACKEND,   default=memory"`
	FilePath string        `env:"STORAGE_FILE,      default=campus-session.json"`
	TTL      time.Duration `env:"STORAGE_TTL,       default=0s"`
	Prefix   string        `env:"STORAGE_PREFIX,    default=campus"`
}

type PortalConfig struct {
	CookieName   string `env:"PORTAL_COOKIE,        default=campus_sid"`
	CookieSecure bool   `env:"PORTAL_COOKIE_SECURE, default=false"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,         default=campus_portal"`
	Collection     string        `env:"MONGO_COLLECTION, default=client_state"`
	ConnectTimeout time.Duration `env:"MONGO_TIMEOUT,    default=10s"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,       default=0"`
	DialTimeout time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// BaseURL resolves the API base URL once from the configured sources.
func (c *Config) BaseURL() string {
	return c.BaseURLOr("")
}

// BaseURLOr is BaseURL for clients without a page origin. fallback replaces
// the relative same-origin path when nothing else locates the API.
func (c *Config) BaseURLOr(fallback string) string {
	return ResolveBaseURL(BaseURLSources{
		Override:       firstWellFormed(c.API.URLOverride, c.API.PublicAPIURL),
		PageBackendURL: c.API.PageBackendURL,
		Hostname:       c.API.PageHost,
		Origin:         c.API.PageOrigin,
		Default:        fallback,
	})
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return &cfg, nil
}

func firstWellFormed(values ...string) string {
	for _, v := range values {
		if wellFormed(v) {
			return v
		}
	}
	return ""
}

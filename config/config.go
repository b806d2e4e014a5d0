package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"` // Comma-separated IPs/CIDRs allowed to set X-Forwarded-For

	// Booking backend.
	BackendURL      string        `mapstructure:"BACKEND_URL"`
	BackendTimeout  time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	BackendRPS      float64       `mapstructure:"BACKEND_RPS"`
	BackendAPIToken string        `mapstructure:"BACKEND_API_TOKEN"`

	// Signed service credentials, used when no static API token is set.
	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTIssuer string        `mapstructure:"JWT_ISSUER"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	// Payment confirmation polling.
	PollMaxAttempts int           `mapstructure:"POLL_MAX_ATTEMPTS"`
	PollInterval    time.Duration `mapstructure:"POLL_INTERVAL"`
	SubmitLockTTL   time.Duration `mapstructure:"SUBMIT_LOCK_TTL"`

	// Redis configuration.
	RedisEnabled  bool   `mapstructure:"REDIS_ENABLED"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("BACKEND_URL", "http://localhost:3000/api")
	v.SetDefault("BACKEND_TIMEOUT", 10*time.Second)
	v.SetDefault("BACKEND_RPS", 20)
	v.SetDefault("BACKEND_API_TOKEN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "hotelbooking-gateway")
	v.SetDefault("JWT_TTL", 15*time.Minute)
	v.SetDefault("POLL_MAX_ATTEMPTS", 5)
	v.SetDefault("POLL_INTERVAL", 5*time.Second)
	v.SetDefault("SUBMIT_LOCK_TTL", 30*time.Second)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_LOCK_DB", 1)
}

// Load reads configuration from the given file (or config.yaml in the
// current and ./config directories when path is empty), overlays the
// environment and applies defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first setting the gateway cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL)
	}
	if c.BackendTimeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}
	if c.BackendRPS <= 0 {
		return errors.New("BACKEND_RPS must be positive")
	}
	if c.PollMaxAttempts < 1 {
		return errors.New("POLL_MAX_ATTEMPTS must be at least 1")
	}
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}
	if c.SubmitLockTTL <= 0 {
		return errors.New("SUBMIT_LOCK_TTL must be positive")
	}
	if c.MaxRequestsPerMin < 1 {
		return errors.New("MAX_REQUESTS_PER_MIN must be at least 1")
	}
	for _, p := range c.Proxies() {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", p)
			}
		}
	}
	return nil
}

// Origins splits CORS_ORIGINS into the list gin-contrib/cors expects.
func (c *Config) Origins() []string {
	origins := splitList(c.CORSOrigins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Proxies splits TRUSTED_PROXIES for gin's SetTrustedProxies. Empty means
// no proxy is trusted and the peer address is the client address.
func (c *Config) Proxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

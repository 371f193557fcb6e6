package config

import (
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendMemory      = "memory"
	BackendRedis       = "redis"
	BackendTokenBucket = "token-bucket"
)

type Config struct {
	Port      string
	Env       string
	APIPrefix string
	LogDebug  bool

	DatabaseURL      string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	DBMaxConns       int32
	DBConnectTimeout time.Duration
	DBQueryTimeout   time.Duration
	AutoMigrate      bool

	BcryptCost          int
	LeaderboardMaxLimit int

	RateLimitBackend  string
	RateLimitWindow   time.Duration
	LoginRateLimit    int
	RegisterRateLimit int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	TrustProxy  bool
	CORSOrigins []string
}

var defaults = map[string]interface{}{
	"PORT":                  "3000",
	"APP_ENV":               EnvDevelopment,
	"API_PREFIX":            "/api",
	"LOG_DEBUG":             false,
	"DATABASE_URL":          "",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "",
	"DB_NAME":               "clickerdb",
	"DB_SSLMODE":            "disable",
	"DB_MAX_CONNS":          20,
	"DB_CONNECT_TIMEOUT":    "2s",
	"DB_QUERY_TIMEOUT":      "5s",
	"AUTO_MIGRATE":          true,
	"BCRYPT_COST":           10,
	"LEADERBOARD_MAX_LIMIT": 100,
	"RATE_LIMIT_BACKEND":    BackendMemory,
	"RATE_LIMIT_WINDOW":     "60s",
	"LOGIN_RATE_LIMIT":      5,
	"REGISTER_RATE_LIMIT":   3,
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"TRUST_PROXY":           false,
	"CORS_ORIGINS":          "",
}

// LoadConfig reads an optional .env file, an optional CONFIG_FILE (yaml) and
// the process environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "reading config file %q", path)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:      v.GetString("PORT"),
		Env:       strings.ToLower(v.GetString("APP_ENV")),
		APIPrefix: strings.TrimRight(v.GetString("API_PREFIX"), "/"),
		LogDebug:  v.GetBool("LOG_DEBUG"),

		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		DBMaxConns:       v.GetInt32("DB_MAX_CONNS"),
		DBConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		DBQueryTimeout:   v.GetDuration("DB_QUERY_TIMEOUT"),
		AutoMigrate:      v.GetBool("AUTO_MIGRATE"),

		BcryptCost:          v.GetInt("BCRYPT_COST"),
		LeaderboardMaxLimit: v.GetInt("LEADERBOARD_MAX_LIMIT"),

		RateLimitBackend:  strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		LoginRateLimit:    v.GetInt("LOGIN_RATE_LIMIT"),
		RegisterRateLimit: v.GetInt("REGISTER_RATE_LIMIT"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),

		TrustProxy:  v.GetBool("TRUST_PROXY"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.NotValidf("empty PORT")
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction, "test":
	default:
		return errors.NotValidf("APP_ENV %q", c.Env)
	}
	switch c.RateLimitBackend {
	case BackendMemory, BackendTokenBucket:
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.NotValidf("RATE_LIMIT_BACKEND=redis without REDIS_ADDR")
		}
	default:
		return errors.NotValidf("RATE_LIMIT_BACKEND %q", c.RateLimitBackend)
	}
	if c.RateLimitWindow <= 0 {
		return errors.NotValidf("RATE_LIMIT_WINDOW %v", c.RateLimitWindow)
	}
	if c.LoginRateLimit <= 0 || c.RegisterRateLimit <= 0 {
		return errors.NotValidf("non-positive rate limit")
	}
	if c.DBMaxConns <= 0 {
		return errors.NotValidf("DB_MAX_CONNS %d", c.DBMaxConns)
	}
	if c.DBConnectTimeout <= 0 || c.DBQueryTimeout <= 0 {
		return errors.NotValidf("non-positive database timeout")
	}
	if c.LeaderboardMaxLimit <= 0 {
		return errors.NotValidf("LEADERBOARD_MAX_LIMIT %d", c.LeaderboardMaxLimit)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the DB_* keys.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	if c.DBSSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.DBSSLMode)
	}
	return u.String()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

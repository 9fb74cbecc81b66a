package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/platform/envutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
	"github.com/yungbote/roadmap-backend/internal/services"
)

const (
	defaultConfigFile = "roadmap.yaml"
	devJWTSecret      = "defaultsecret"
)

type Config struct {
	Env     string `yaml:"env"`
	LogMode string `yaml:"log_mode"`

	HTTP       HTTPConfig       `yaml:"http"`
	DB         DBConfig         `yaml:"db"`
	Auth       AuthConfig       `yaml:"auth"`
	Redis      RedisConfig      `yaml:"redis"`
	Pagination PaginationConfig `yaml:"pagination"`
	CORS       CORSConfig       `yaml:"cors"`
	Otel       OtelConfig       `yaml:"otel"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig takes either a full DSN or the POSTGRES_* parts.
type DBConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type PaginationConfig struct {
	DefaultPageNumber int           `yaml:"default_page_number"`
	DefaultPageSize   int           `yaml:"default_page_size"`
	DefaultSortBy     string        `yaml:"default_sort_by"`
	DefaultAsc        int           `yaml:"default_asc"`
	MaxPageNumber     int           `yaml:"max_page_number"`
	MaxPageSize       int           `yaml:"max_page_size"`
	PageSizeStep      int           `yaml:"page_size_step"`
	NearDueWindow     time.Duration `yaml:"near_due_window"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type OtelConfig struct {
	ServiceName string `yaml:"service_name"`
}

func DefaultConfig() Config {
	q := services.DefaultQueryConfig()
	return Config{
		Env:     "development",
		LogMode: "development",
		HTTP:    HTTPConfig{Addr: ":8080", ShutdownTimeout: 15 * time.Second},
		DB: DBConfig{
			Driver:          db.DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "roadmap",
			SSLMode:         "disable",
			AutoMigrate:     true,
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Auth:  AuthConfig{JWTSecret: devJWTSecret, TokenTTL: time.Hour},
		Redis: RedisConfig{Channel: bus.DefaultChannel},
		Pagination: PaginationConfig{
			DefaultPageNumber: q.DefaultPageNumber,
			DefaultPageSize:   q.DefaultPageSize,
			DefaultSortBy:     q.DefaultSortBy,
			DefaultAsc:        q.DefaultAsc,
			MaxPageNumber:     q.MaxPageNumber,
			MaxPageSize:       q.MaxPageSize,
			PageSizeStep:      q.PageSizeStep,
			NearDueWindow:     q.NearDueWindow,
		},
		Otel: OtelConfig{ServiceName: "roadmap"},
	}
}

// LoadConfig layers defaults < YAML file < environment and validates the result.
// CONFIG_FILE names the YAML file; roadmap.yaml is read when present.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := DefaultConfig()

	path, explicit := envutil.Lookup("CONFIG_FILE")
	if !explicit {
		path = defaultConfigFile
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Env = envutil.String("ENV", c.Env)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)

	c.HTTP.Addr = envutil.String("HTTP_ADDR", c.HTTP.Addr)
	if port, ok := envutil.Lookup("PORT"); ok {
		c.HTTP.Addr = ":" + port
	}
	c.HTTP.ShutdownTimeout = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout)

	c.DB.Driver = envutil.String("DB_DRIVER", c.DB.Driver)
	c.DB.DSN = envutil.String("DB_DSN", c.DB.DSN)
	c.DB.Host = envutil.String("POSTGRES_HOST", c.DB.Host)
	c.DB.Port = envutil.Int("POSTGRES_PORT", c.DB.Port)
	c.DB.User = envutil.String("POSTGRES_USER", c.DB.User)
	c.DB.Password = envutil.String("POSTGRES_PASSWORD", c.DB.Password)
	c.DB.Name = envutil.String("POSTGRES_NAME", c.DB.Name)
	c.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", c.DB.SSLMode)
	c.DB.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", c.DB.AutoMigrate)
	c.DB.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns)
	c.DB.MaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", c.DB.MaxIdleConns)

	c.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", c.Auth.JWTSecret)
	c.Auth.TokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", c.Auth.TokenTTL)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Channel = envutil.String("REDIS_CHANNEL", c.Redis.Channel)

	p := &c.Pagination
	p.DefaultPageNumber = envutil.Int("PAGINATION_DEFAULT_PAGE_NUMBER", p.DefaultPageNumber)
	p.DefaultPageSize = envutil.Int("PAGINATION_DEFAULT_PAGE_SIZE", p.DefaultPageSize)
	p.DefaultSortBy = envutil.String("PAGINATION_DEFAULT_SORT_BY", p.DefaultSortBy)
	p.DefaultAsc = envutil.Int("PAGINATION_DEFAULT_ASC", p.DefaultAsc)
	p.MaxPageNumber = envutil.Int("PAGINATION_MAX_PAGE_NUMBER", p.MaxPageNumber)
	p.MaxPageSize = envutil.Int("PAGINATION_MAX_PAGE_SIZE", p.MaxPageSize)
	p.PageSizeStep = envutil.Int("PAGINATION_PAGE_SIZE_STEP", p.PageSizeStep)
	p.NearDueWindow = envutil.Duration("PAGINATION_NEAR_DUE_WINDOW", p.NearDueWindow)

	if origins, ok := envutil.Lookup("CORS_ALLOW_ORIGINS"); ok {
		c.CORS.AllowOrigins = splitList(origins)
	}
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName)
}

func (c Config) IsProd() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "prod", "production":
		return true
	}
	return false
}

// Validate reports every impossible setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db.driver %q must be postgres or sqlite", c.DB.Driver))
	}
	if strings.EqualFold(c.DB.Driver, db.DriverSQLite) && strings.TrimSpace(c.DB.DSN) == "" {
		errs = append(errs, errors.New("db.dsn is required for sqlite"))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	} else if c.IsProd() && c.Auth.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be changed in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}

	p := c.Pagination
	if p.PageSizeStep <= 0 {
		errs = append(errs, errors.New("pagination.page_size_step must be positive"))
	} else {
		if p.DefaultPageSize%p.PageSizeStep != 0 {
			errs = append(errs, fmt.Errorf("pagination.default_page_size %d is not a multiple of %d", p.DefaultPageSize, p.PageSizeStep))
		}
		if p.MaxPageSize%p.PageSizeStep != 0 {
			errs = append(errs, fmt.Errorf("pagination.max_page_size %d is not a multiple of %d", p.MaxPageSize, p.PageSizeStep))
		}
	}
	if p.DefaultPageSize <= 0 || p.DefaultPageSize > p.MaxPageSize {
		errs = append(errs, fmt.Errorf("pagination.default_page_size must be within 1..%d", p.MaxPageSize))
	}
	if p.DefaultPageNumber < 1 || p.DefaultPageNumber > p.MaxPageNumber {
		errs = append(errs, fmt.Errorf("pagination.default_page_number must be within 1..%d", p.MaxPageNumber))
	}
	if p.DefaultAsc != 0 && p.DefaultAsc != 1 {
		errs = append(errs, errors.New("pagination.default_asc must be 0 or 1"))
	}
	if p.NearDueWindow <= 0 {
		errs = append(errs, errors.New("pagination.near_due_window must be positive"))
	}
	return errors.Join(errs...)
}

// DBOptions resolves the connection string for the configured driver.
func (c Config) DBOptions() db.Options {
	dsn := strings.TrimSpace(c.DB.DSN)
	if dsn == "" && strings.EqualFold(c.DB.Driver, db.DriverPostgres) {
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
	}
	return db.Options{
		Driver:          c.DB.Driver,
		DSN:             dsn,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
	}
}

func (c Config) QueryConfig() services.QueryConfig {
	p := c.Pagination
	return services.QueryConfig{
		DefaultPageNumber: p.DefaultPageNumber,
		DefaultPageSize:   p.DefaultPageSize,
		DefaultSortBy:     p.DefaultSortBy,
		DefaultAsc:        p.DefaultAsc,
		MaxPageNumber:     p.MaxPageNumber,
		MaxPageSize:       p.MaxPageSize,
		PageSizeStep:      p.PageSizeStep,
		NearDueWindow:     p.NearDueWindow,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

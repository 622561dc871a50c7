// Package config loads dashboard settings from .env files, an optional YAML
// file and TICKETDASH_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "TICKETDASH"

const (
	ServerAddr = "server.addr"

	BackendBaseURL           = "backend.base_url"
	BackendTimeout           = "backend.timeout"
	BackendTicketConcurrency = "backend.ticket_concurrency"

	SessionDriver = "session.driver"
	SessionPath   = "session.path"

	RedisAddr     = "redis.addr"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"
	RedisPrefix   = "redis.prefix"

	AssistantAPIKey = "assistant.api_key"
	AssistantModel  = "assistant.model"
	AssistantRPS    = "assistant.rps"

	ExportDir = "export.dir"

	ChartsTheme    = "charts.theme"
	ChartsCacheTTL = "charts.cache_ttl"

	FixturesPath = "fixtures.path"

	LogLevel  = "log.level"
	LogFormat = "log.format"
)

// Session drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

var errUnknownDriver = errors.New("config: unknown session driver")

// Config is the resolved configuration.
type Config struct {
	Server    Server
	Backend   Backend
	Session   Session
	Redis     Redis
	Assistant Assistant
	Export    Export
	Charts    Charts
	Fixtures  string
	Log       Log
}

type Server struct {
	Addr string
}

type Backend struct {
	BaseURL           string
	Timeout           time.Duration
	TicketConcurrency int
}

type Session struct {
	Driver string
	Path   string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Assistant struct {
	APIKey string
	Model  string
	RPS    float64
}

type Export struct {
	Dir string
}

type Charts struct {
	Theme    string
	CacheTTL time.Duration
}

type Log struct {
	Level  string
	Format string
}

// LoadOptions points at optional files. Missing files are skipped.
type LoadOptions struct {
	EnvFiles   []string
	ConfigFile string
}

func defaults(v *viper.Viper) {
	v.SetDefault(ServerAddr, ":8080")
	v.SetDefault(BackendBaseURL, "http://localhost:8000/api/")
	v.SetDefault(BackendTimeout, "10s")
	v.SetDefault(BackendTicketConcurrency, 8)
	v.SetDefault(SessionDriver, DriverFile)
	v.SetDefault(SessionPath, "")
	v.SetDefault(RedisAddr, "localhost:6379")
	v.SetDefault(RedisPassword, "")
	v.SetDefault(RedisDB, 0)
	v.SetDefault(RedisPrefix, "eventmaster:session")
	v.SetDefault(AssistantAPIKey, "")
	v.SetDefault(AssistantModel, "gemini-3-flash-preview")
	v.SetDefault(AssistantRPS, 1.0)
	v.SetDefault(ExportDir, ".")
	v.SetDefault(ChartsTheme, "light")
	v.SetDefault(ChartsCacheTTL, "1m")
	v.SetDefault(FixturesPath, "")
	v.SetDefault(LogLevel, "info")
	v.SetDefault(LogFormat, "text")
}

// Load resolves the configuration. Precedence, highest first: environment,
// config file, defaults. The AI key is also read from API_KEY.
func Load(opts LoadOptions) (Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// TICKETDASH_ASSISTANT_API_KEY is picked up by AutomaticEnv first.
	if err := v.BindEnv(AssistantAPIKey, "API_KEY"); err != nil {
		return Config{}, fmt.Errorf("config: bind api key: %w", err)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
			}
		}
	}

	cfg := Config{
		Server: Server{Addr: v.GetString(ServerAddr)},
		Backend: Backend{
			BaseURL:           v.GetString(BackendBaseURL),
			Timeout:           v.GetDuration(BackendTimeout),
			TicketConcurrency: v.GetInt(BackendTicketConcurrency),
		},
		Session: Session{
			Driver: strings.ToLower(v.GetString(SessionDriver)),
			Path:   v.GetString(SessionPath),
		},
		Redis: Redis{
			Addr:     v.GetString(RedisAddr),
			Password: v.GetString(RedisPassword),
			DB:       v.GetInt(RedisDB),
			Prefix:   v.GetString(RedisPrefix),
		},
		Assistant: Assistant{
			APIKey: v.GetString(AssistantAPIKey),
			Model:  v.GetString(AssistantModel),
			RPS:    v.GetFloat64(AssistantRPS),
		},
		Export:   Export{Dir: v.GetString(ExportDir)},
		Charts:   Charts{Theme: v.GetString(ChartsTheme), CacheTTL: v.GetDuration(ChartsCacheTTL)},
		Fixtures: v.GetString(FixturesPath),
		Log:      Log{Level: v.GetString(LogLevel), Format: v.GetString(LogFormat)},
	}
	return cfg, cfg.Validate()
}

// Validate rejects unusable values.
func (c Config) Validate() error {
	switch c.Session.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("%w: %q", errUnknownDriver, c.Session.Driver)
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("config: backend.base_url is required")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Server `yaml:"server"`
	Mongo  Mongo  `yaml:"mongo"`
	Auth   Auth   `yaml:"auth"`
	Log    Log    `yaml:"log"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the listen address for the HTTP server.
func (s Server) Addr() string {
	port := s.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", s.Host, port)
}

type Mongo struct {
	URI                   string `yaml:"uri"`
	Database              string `yaml:"database"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
}

// ConnectTimeout bounds the connection attempt so an unreachable store
// fails fast rather than hanging.
func (m Mongo) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSeconds) * time.Second
}

type Auth struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	AppURL        string `yaml:"app_url"`
	Google        Google `yaml:"google"`
}

type Google struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// TokenTTL is how long an issued session token stays valid.
func (a Auth) TokenTTL() time.Duration {
	if a.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const defaultPath = "config.yaml"

// Load reads the config file, expanding ${VAR} placeholders from the
// environment before parsing. The path can be overridden with
// TASKDECK_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv("TASKDECK_CONFIG")
	if path == "" {
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Environment overrides for the common deployment knobs
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value: %w", err)
		}
		cfg.Server.Port = port
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Mongo.URI = uri
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse unmarshals config content after substituting environment
// variable placeholders of the form ${NAME}.
func Parse(data []byte) (*Config, error) {
	content := string(data)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		placeholder := "${" + pair[0] + "}"
		content = strings.ReplaceAll(content, placeholder, pair[1])
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "taskdeck"
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Backend string `yaml:"backend"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
		TokenTTL  string `yaml:"tokenTTL"`
	} `yaml:"auth"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"amqp"`
}

// Load reads YAML config from path. JWT_SECRET overrides auth.jwtSecret.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if cfg.AMQP.Exchange == "" {
		cfg.AMQP.Exchange = "exam.events"
	}
	return cfg, cfg.validate()
}

// Backend returns the configured store, inferring it from the connection settings when unset.
func (c Config) Backend() string {
	switch {
	case c.Store.Backend != "":
		return c.Store.Backend
	case c.Postgres.URL != "":
		return BackendPostgres
	case c.Redis.Addr != "":
		return BackendRedis
	default:
		return BackendMemory
	}
}

func (c Config) validate() error {
	switch c.Backend() {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres backend requires postgres.url")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis backend requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

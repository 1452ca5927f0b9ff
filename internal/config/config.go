package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Mode    string `yaml:"mode"`    // polling | webhook (future)
	Workers int    `yaml:"workers"` // polling workers
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type AdminConfig struct {
	Port int `yaml:"port"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// StateTTL expires idle conversation state when set. Zero keeps state
	// forever, which matches the reference behavior.
	StateTTL time.Duration `yaml:"state_ttl"`
}

type MoltinConfig struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Channel      string `yaml:"channel"` // EP-Channel header value
}

type DispatchConfig struct {
	// TurnTimeout bounds one handled event end to end.
	TurnTimeout time.Duration `yaml:"turn_timeout"`
	// LockTTL bounds how long one conversation's turn may hold its lock.
	LockTTL time.Duration `yaml:"lock_ttl"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Redis    RedisConfig    `yaml:"redis"`
	Moltin   MoltinConfig   `yaml:"moltin"`
	Dispatch DispatchConfig `yaml:"dispatch"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Moltin.BaseURL == "" {
		cfg.Moltin.BaseURL = "https://api.moltin.com"
	}
	if cfg.Moltin.Channel == "" {
		cfg.Moltin.Channel = "web store"
	}
	if cfg.Dispatch.TurnTimeout <= 0 {
		cfg.Dispatch.TurnTimeout = 30 * time.Second
	}
	if cfg.Dispatch.LockTTL <= 0 {
		cfg.Dispatch.LockTTL = cfg.Dispatch.TurnTimeout
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Moltin.ClientID == "" || cfg.Moltin.ClientSecret == "" {
		return nil, errors.New("moltin.client_id and moltin.client_secret are required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

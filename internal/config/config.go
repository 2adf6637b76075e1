package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Packages struct {
		TTL string `yaml:"ttl"`
	} `yaml:"packages"`
	Session struct {
		CorrectDelay       string `yaml:"correct_delay"`
		WrongDelay         string `yaml:"wrong_delay"`
		CelebrationTime    string `yaml:"celebration_time"`
		SummaryAutoClose   string `yaml:"summary_auto_close"`
		CelebrateOnPerfect *bool  `yaml:"celebrate_on_perfect"`
	} `yaml:"session"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// CelebrationEnabled reports the celebrate_on_perfect flag, defaulting to on.
func (c Config) CelebrationEnabled() bool {
	if c.Session.CelebrateOnPerfect == nil {
		return true
	}
	return *c.Session.CelebrateOnPerfect
}

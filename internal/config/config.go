package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataDir   string `yaml:"data_dir"`
		LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
		LogFormat string `yaml:"log_format"` // text, json
	} `yaml:"app"`

	Lookup struct {
		BaseURL        string `yaml:"base_url"`
		UserAgent      string `yaml:"user_agent"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		// Minimum spacing between external calls. Nominatim's usage
		// policy caps at 1 req/sec; 1200ms leaves headroom.
		SpacingMS     int `yaml:"spacing_ms"`
		CacheTTLHours int `yaml:"cache_ttl_hours"`
		MaxResults    int `yaml:"max_results"`
	} `yaml:"lookup"`

	Matching struct {
		// Distance substituted when either side has no known location.
		PenaltyKM float64 `yaml:"penalty_km"`
		// Score = distance_km - rating_weight * rating. Lower wins.
		RatingWeight float64 `yaml:"rating_weight"`
	} `yaml:"matching"`

	Outreach struct {
		Sender   string `yaml:"sender"`
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
		SMTPUser string `yaml:"smtp_user"`
		IMAPHost string `yaml:"imap_host"`
		IMAPPort int    `yaml:"imap_port"`
	} `yaml:"outreach"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func Default() Config {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.App.LogLevel = "info"
	cfg.App.LogFormat = "text"

	cfg.Lookup.BaseURL = "https://nominatim.openstreetmap.org/search"
	cfg.Lookup.UserAgent = "dispatch-engine/1.0 (business automation; ops@example.com)"
	cfg.Lookup.TimeoutSeconds = 30
	cfg.Lookup.SpacingMS = 1200
	cfg.Lookup.CacheTTLHours = 24
	cfg.Lookup.MaxResults = 50

	cfg.Matching.PenaltyKM = 999
	cfg.Matching.RatingWeight = 2

	cfg.Outreach.Sender = "Team"
	cfg.Outreach.SMTPHost = "smtp.gmail.com"
	cfg.Outreach.SMTPPort = 587
	cfg.Outreach.IMAPHost = "imap.gmail.com"
	cfg.Outreach.IMAPPort = 993
	return cfg
}

func (c Config) LookupTimeout() time.Duration {
	return time.Duration(c.Lookup.TimeoutSeconds) * time.Second
}

func (c Config) LookupSpacing() time.Duration {
	return time.Duration(c.Lookup.SpacingMS) * time.Millisecond
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Lookup.CacheTTLHours) * time.Hour
}

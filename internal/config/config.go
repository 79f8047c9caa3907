package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// PublicURL is where clients reach this service; the profile lookup
		// proxy tier calls back into it.
		PublicURL string `yaml:"public_url"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz struct {
		BankID string `yaml:"bank_id"`
		TTL    string `yaml:"ttl"`
	} `yaml:"quiz"`
	Twitter struct {
		BearerToken string `yaml:"bearer_token"`
		APIBaseURL  string `yaml:"api_base_url"`
	} `yaml:"twitter"`
	Lookup struct {
		ProxyBaseURL string `yaml:"proxy_base_url"`
		OEmbedURL    string `yaml:"oembed_url"`
		Timeout      string `yaml:"timeout"`
	} `yaml:"lookup"`
	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"llm"`
	Policy struct {
		RequireProfile      bool `yaml:"require_profile"`
		ClearProfileOnReset bool `yaml:"clear_profile_on_reset"`
	} `yaml:"policy"`
	Card struct {
		Background    string  `yaml:"background"`
		Scale         float64 `yaml:"scale"`
		CrossOrigin   *bool   `yaml:"cross_origin"`
		SettleTimeout string  `yaml:"settle_timeout"`
	} `yaml:"card"`
}

// Load reads YAML config from path. A missing file yields defaults so the
// service can run from environment variables alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

// applyEnv lets secrets live outside the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TWITTER_BEARER_TOKEN"); v != "" {
		cfg.Twitter.BearerToken = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		cfg.Server.PublicURL = v
	}
	if v := os.Getenv("MAXI_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Twitter.APIBaseURL == "" {
		cfg.Twitter.APIBaseURL = "https://api.twitter.com"
	}
	if cfg.Lookup.OEmbedURL == "" {
		cfg.Lookup.OEmbedURL = "https://publish.twitter.com/oembed"
	}
	if cfg.Card.Background == "" {
		cfg.Card.Background = "#0f0505"
	}
	if cfg.Card.Scale <= 0 {
		cfg.Card.Scale = 2
	}
	if cfg.Card.CrossOrigin == nil {
		allow := true
		cfg.Card.CrossOrigin = &allow
	}
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

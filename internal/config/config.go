package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultRefreshInterval = "1h"
	configPathEnv          = "VELODIGEST_CONFIG"
	databaseDSNEnv         = "DATABASE_DSN"
	newsAPIKeyEnv          = "NEWSAPI_KEY"
	guardianAPIKeyEnv      = "GUARDIAN_API_KEY"
	telegramTokenEnv       = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv      = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Providers     ProviderConfig     `yaml:"providers"`
	Notifications NotificationConfig `yaml:"notifications"`
	Digest        DigestConfig       `yaml:"digest"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes the optional Postgres archive. An empty DSN keeps
// the aggregator fully in-memory.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often the daemon mode refreshes.
type SchedulerConfig struct {
	RefreshInterval string `yaml:"refreshInterval"`
}

// Interval resolves the refresh interval string to a duration.
func (s SchedulerConfig) Interval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultRefreshInterval)
	}
	return d
}

// ProviderConfig groups settings for the news sources.
type ProviderConfig struct {
	NewsAPI  NewsAPIConfig  `yaml:"newsapi"`
	Guardian GuardianConfig `yaml:"guardian"`
	Feeds    []FeedConfig   `yaml:"feeds"`
}

// NewsAPIConfig wires the keyword-search news API.
type NewsAPIConfig struct {
	BaseURL          string   `yaml:"baseUrl"`
	APIKey           string   `yaml:"apiKey"`
	PageSize         int      `yaml:"pageSize"`
	MaxQueriesPerRun int      `yaml:"maxQueriesPerRun"`
	FromWindowHours  int      `yaml:"fromWindowHours"`
	Queries          []string `yaml:"queries"`
}

// GuardianConfig wires the open editorial API.
type GuardianConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	APIKey   string `yaml:"apiKey"`
	PageSize int    `yaml:"pageSize"`
	Query    string `yaml:"query"`
}

// FeedConfig describes one supplemental RSS feed.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// DigestConfig controls how many stories the notifier digest carries.
type DigestConfig struct {
	TopStories int `yaml:"topStories"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Providers.NewsAPI.APIKey = v
	}

	if v := os.Getenv(guardianAPIKeyEnv); v != "" {
		c.Providers.Guardian.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.RefreshInterval != "" {
		base.Scheduler = override.Scheduler
	}

	if override.Providers.NewsAPI.BaseURL != "" {
		base.Providers.NewsAPI.BaseURL = override.Providers.NewsAPI.BaseURL
	}
	if override.Providers.NewsAPI.APIKey != "" {
		base.Providers.NewsAPI.APIKey = override.Providers.NewsAPI.APIKey
	}
	if override.Providers.NewsAPI.PageSize > 0 {
		base.Providers.NewsAPI.PageSize = override.Providers.NewsAPI.PageSize
	}
	if override.Providers.NewsAPI.MaxQueriesPerRun > 0 {
		base.Providers.NewsAPI.MaxQueriesPerRun = override.Providers.NewsAPI.MaxQueriesPerRun
	}
	if override.Providers.NewsAPI.FromWindowHours > 0 {
		base.Providers.NewsAPI.FromWindowHours = override.Providers.NewsAPI.FromWindowHours
	}
	if len(override.Providers.NewsAPI.Queries) > 0 {
		base.Providers.NewsAPI.Queries = override.Providers.NewsAPI.Queries
	}

	if override.Providers.Guardian.BaseURL != "" {
		base.Providers.Guardian.BaseURL = override.Providers.Guardian.BaseURL
	}
	if override.Providers.Guardian.APIKey != "" {
		base.Providers.Guardian.APIKey = override.Providers.Guardian.APIKey
	}
	if override.Providers.Guardian.PageSize > 0 {
		base.Providers.Guardian.PageSize = override.Providers.Guardian.PageSize
	}
	if override.Providers.Guardian.Query != "" {
		base.Providers.Guardian.Query = override.Providers.Guardian.Query
	}

	if len(override.Providers.Feeds) > 0 {
		base.Providers.Feeds = override.Providers.Feeds
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Digest.TopStories > 0 {
		base.Digest = override.Digest
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{RefreshInterval: defaultRefreshInterval},
		Providers: ProviderConfig{
			NewsAPI: NewsAPIConfig{
				BaseURL:          "https://newsapi.org/v2/everything",
				PageSize:         10,
				MaxQueriesPerRun: 3,
				FromWindowHours:  72,
				Queries: []string{
					"UCI World Championships",
					"European cycling championships",
					"Tour de France",
					"Giro d'Italia",
					"Vuelta a España",
					"Paris-Roubaix",
					"Milan-San Remo",
					"Liège-Bastogne-Liège",
					"cycling team news",
					"UCI cycling news",
					"professional cycling",
					"cycling championship results",
					"bike racing news",
					"cycling technology",
					"mountain biking championship",
				},
			},
			Guardian: GuardianConfig{
				BaseURL:  "https://content.guardianapis.com/search",
				APIKey:   "test",
				PageSize: 10,
				Query:    `cycling OR "bike racing" OR "UCI" OR "Tour de France" OR "cycling championship"`,
			},
			Feeds: nil,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Digest: DigestConfig{TopStories: 5},
	}
}

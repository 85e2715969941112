package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the bot process.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	BotToken string `env:"BOT_TOKEN,required"`

	// Listener
	Port                 int           `env:"PORT" envDefault:"8080"`
	PortProbeLimit       int           `env:"PORT_PROBE_LIMIT" envDefault:"100"`
	WebhookBaseURL       string        `env:"WEBHOOK_URL" envDefault:"https://fullsaveinstabot-655796952703.europe-west1.run.app"`
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`

	// Resolution
	ResolverMaxAttempts int           `env:"RESOLVER_MAX_ATTEMPTS" envDefault:"3"`
	ResolverRetryDelay  time.Duration `env:"RESOLVER_RETRY_DELAY" envDefault:"1s"`
	ResolverTimeout     time.Duration `env:"RESOLVER_TIMEOUT" envDefault:"30s"`
	TikTokAPIBaseURL    string        `env:"TIKTOK_API_BASE_URL" envDefault:"https://api.tiklydown.eu.org"`

	// Quota
	DownloadsLimit int `env:"DOWNLOADS_LIMIT" envDefault:"60"`

	// Persistence and localization
	AdvertiserChannelsPath string `env:"ADVERTISER_CHANNELS_PATH" envDefault:"advertiser_channels.json"`
	DefaultLanguage        string `env:"DEFAULT_LANGUAGE" envDefault:"ru"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

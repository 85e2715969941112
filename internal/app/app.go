// Package app wires the bot together: configuration, translator, advertiser
// channels, quota gate, the resolver router and the HTTP delivery listener.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/fullsave/mediabot/internal/adverts"
	"github.com/fullsave/mediabot/internal/bot"
	"github.com/fullsave/mediabot/internal/i18n"
	"github.com/fullsave/mediabot/internal/platform/config"
	"github.com/fullsave/mediabot/internal/platform/resilience"
	"github.com/fullsave/mediabot/internal/quota"
	"github.com/fullsave/mediabot/internal/resolver"
	"github.com/fullsave/mediabot/internal/server"
)

// App holds the assembled bot process.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
	srv    *server.Server
	api    *tgbotapi.BotAPI
}

// New builds the full dependency graph from configuration. The advertiser
// channel list is optional: a missing or unreadable file degrades to an
// empty set.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	translator, err := i18n.New(cfg.DefaultLanguage, logger)
	if err != nil {
		return nil, fmt.Errorf("translator init: %w", err)
	}

	channels, err := adverts.Load(cfg.AdvertiserChannelsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.AdvertiserChannelsPath).
			Msg("failed to load advertiser channels, continuing without")
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts: cfg.ResolverMaxAttempts,
		Delay:       cfg.ResolverRetryDelay,
	}

	router := resolver.NewRouter(
		resolver.NewInstagramResolver(resolver.InstagramConfig{
			Timeout: cfg.ResolverTimeout,
			Retry:   retryCfg,
		}),
		resolver.NewTikTokResolver(resolver.TikTokConfig{
			BaseURL: cfg.TikTokAPIBaseURL,
			Timeout: cfg.ResolverTimeout,
			Retry:   retryCfg,
		}),
		resolver.NewYouTubeResolver(resolver.YouTubeConfig{
			Timeout: cfg.ResolverTimeout,
			Retry:   retryCfg,
		}),
	)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram api init: %w", err)
	}

	logger.Info().Str("username", api.Self.UserName).Msg("authorized on telegram")

	handler := bot.NewHandler(
		api,
		router,
		quota.NewGate(cfg.DownloadsLimit),
		quota.NewStats(),
		channels,
		translator,
		logger,
	)

	srv := server.New(server.Config{
		Port:                 cfg.Port,
		PortProbeLimit:       cfg.PortProbeLimit,
		RateLimitWindow:      cfg.RateLimitWindow,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		BotUsername:          api.Self.UserName,
	}, handler, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		srv:    srv,
		api:    api,
	}, nil
}

// Run registers the webhook and serves updates until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	server.RegisterWebhook(a.api, a.cfg.WebhookBaseURL, a.logger)

	return a.srv.Start(ctx)
}

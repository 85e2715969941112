package server

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// registrar is the slice of the Telegram API needed for webhook
// registration. *tgbotapi.BotAPI satisfies it.
type registrar interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// RegisterWebhook removes any previously registered webhook and registers
// {baseURL}/webhook. Registration is best-effort: a failure is logged and
// the process keeps running, it just will not receive updates until the
// registration is retried externally.
func RegisterWebhook(api registrar, baseURL string, logger *zerolog.Logger) {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn().Err(err).Msg("failed to delete previous webhook")
	}

	webhookURL := strings.TrimRight(baseURL, "/") + "/webhook"

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		logger.Error().Err(err).Str("url", webhookURL).Msg("webhook registration failed")
		return
	}

	if _, err := api.Request(wh); err != nil {
		logger.Error().Err(err).Str("url", webhookURL).Msg("webhook registration failed")
		return
	}

	logger.Info().Str("url", webhookURL).Msg("webhook registered")
}

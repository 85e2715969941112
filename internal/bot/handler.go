// Package bot orchestrates inbound Telegram updates through the media
// resolution pipeline: classify, quota check, resolve, deliver.
package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fullsave/mediabot/internal/adverts"
	"github.com/fullsave/mediabot/internal/classify"
	"github.com/fullsave/mediabot/internal/i18n"
	"github.com/fullsave/mediabot/internal/platform/observability"
	"github.com/fullsave/mediabot/internal/quota"
)

// sender is the narrow slice of the Telegram API the handler needs.
// *tgbotapi.BotAPI satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// router dispatches a classified URL to the matching provider resolver.
type router interface {
	Route(ctx context.Context, classified classify.Result) (string, error)
}

// Handler turns one inbound update into exactly one user-visible reply.
type Handler struct {
	api        sender
	router     router
	gate       *quota.Gate
	stats      *quota.Stats
	channels   *adverts.Set
	translator *i18n.Translator
	logger     *zerolog.Logger
}

func NewHandler(
	api sender,
	r router,
	gate *quota.Gate,
	stats *quota.Stats,
	channels *adverts.Set,
	translator *i18n.Translator,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		api:        api,
		router:     r,
		gate:       gate,
		stats:      stats,
		channels:   channels,
		translator: translator,
		logger:     logger,
	}
}

// HandleUpdate processes one inbound update. All per-request failures are
// absorbed here; nothing propagates to the listener.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	logger := h.logger.With().
		Str("request_id", uuid.NewString()).
		Int64("chat_id", msg.Chat.ID).
		Logger()

	lang := h.userLanguage(msg)

	if msg.IsCommand() {
		h.handleCommand(msg, lang, &logger)
		return
	}

	h.handleDownload(ctx, msg, lang, &logger)
}

func (h *Handler) handleCommand(msg *tgbotapi.Message, lang string, logger *zerolog.Logger) {
	switch msg.Command() {
	case "start":
		h.reply(msg.Chat.ID, h.translator.Get(lang, "welcome"), logger)
	case "help":
		h.reply(msg.Chat.ID, h.translator.Get(lang, "help"), logger)
	default:
		h.reply(msg.Chat.ID, h.translator.Get(lang, "invalid_url"), logger)
	}
}

func (h *Handler) handleDownload(ctx context.Context, msg *tgbotapi.Message, lang string, logger *zerolog.Logger) {
	chatID := msg.Chat.ID

	classified := classify.Classify(msg.Text)
	if classified.Provider == classify.Unsupported {
		h.reply(chatID, h.translator.Get(lang, "invalid_url"), logger)
		return
	}

	providerLogger := logger.With().Str("provider", string(classified.Provider)).Logger()

	if h.gate.Check(chatID) == quota.Exceeded {
		observability.QuotaBlockedTotal.Inc()
		h.replyQuotaExceeded(chatID, lang, &providerLogger)

		return
	}

	processingID := h.sendProcessing(chatID, lang, &providerLogger)

	mediaURL, err := h.router.Route(ctx, classified)
	if err != nil {
		providerLogger.Error().Err(err).Str("url", classified.URL).Msg("resolution failed")
		observability.DownloadsTotal.WithLabelValues(string(classified.Provider), "resolve_failed").Inc()
		h.stats.RecordFailure(chatID)
		h.reply(chatID, h.translator.Get(lang, "download_error"), &providerLogger)

		return
	}

	h.deliver(msg, classified, mediaURL, lang, processingID, &providerLogger)
}

func (h *Handler) deliver(
	msg *tgbotapi.Message,
	classified classify.Result,
	mediaURL, lang string,
	processingID int,
	logger *zerolog.Logger,
) {
	chatID := msg.Chat.ID
	provider := string(classified.Provider)

	video := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(mediaURL))
	video.Caption = i18n.Replace(h.translator.Get(lang, "source_link"), "sourceLink", classified.URL)

	if _, err := h.api.Send(video); err != nil {
		h.stats.RecordFailure(chatID)

		if isFileTooLarge(err) {
			logger.Warn().Err(err).Msg("video exceeds telegram size ceiling, sending raw url")
			observability.DownloadsTotal.WithLabelValues(provider, "too_large").Inc()
			h.reply(chatID, h.translator.Get(lang, "file_too_large")+" "+mediaURL, logger)

			return
		}

		logger.Error().Err(err).Msg("video delivery failed")
		observability.DownloadsTotal.WithLabelValues(provider, "send_failed").Inc()
		h.reply(chatID, h.translator.Get(lang, "send_error"), logger)

		return
	}

	// Quota is consumed only by a confirmed delivery.
	h.gate.Increment(chatID)
	h.stats.RecordSuccess(chatID)
	observability.DownloadsTotal.WithLabelValues(provider, "delivered").Inc()

	logger.Info().Int64("downloads", h.gate.Count(chatID)).Msg("video delivered")

	if processingID != 0 {
		h.deleteMessage(chatID, processingID, logger)
	}
}

func (h *Handler) replyQuotaExceeded(chatID int64, lang string, logger *zerolog.Logger) {
	channel, ok := h.channels.Pick()
	if !ok {
		h.reply(chatID, h.translator.Get(lang, "limit_reached"), logger)
		return
	}

	text := i18n.Replace(h.translator.Get(lang, "subscribe_request"), "channelLink", channel.Link)
	h.reply(chatID, text, logger)
}

// sendProcessing sends the ephemeral acknowledgment and returns its message
// id, or 0 when the send failed. A failed ack does not abort the request.
func (h *Handler) sendProcessing(chatID int64, lang string, logger *zerolog.Logger) int {
	sent, err := h.api.Send(tgbotapi.NewMessage(chatID, h.translator.Get(lang, "processing")))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to send processing message")
		return 0
	}

	return sent.MessageID
}

func (h *Handler) reply(chatID int64, text string, logger *zerolog.Logger) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Error().Err(err).Msg("failed to send reply")
	}
}

func (h *Handler) deleteMessage(chatID int64, messageID int, logger *zerolog.Logger) {
	if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logger.Warn().Err(err).Int("message_id", messageID).Msg("failed to delete processing message")
	}
}

func (h *Handler) userLanguage(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return h.translator.UserLanguage("")
	}

	return h.translator.UserLanguage(msg.From.LanguageCode)
}

// isFileTooLarge detects the Telegram send failure for files above the
// platform's size ceiling.
func isFileTooLarge(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return strings.Contains(strings.ToLower(tgErr.Message), "too big")
	}

	return false
}

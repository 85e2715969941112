// Package server hosts the HTTP delivery listener: it probes for a free
// port, serves the liveness, status, metrics and webhook endpoints, and
// registers the webhook with Telegram.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fullsave/mediabot/internal/platform/observability"
	"github.com/fullsave/mediabot/internal/platform/resilience"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	maxUpdateBodySize = 1 << 20
)

// ErrBindExhausted is returned when no free port is found within the probe
// limit. The process cannot start in that case.
var ErrBindExhausted = errors.New("no free port found within probe limit")

// UpdateHandler consumes one inbound Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// Config holds listener settings.
type Config struct {
	Port                 int
	PortProbeLimit       int
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	BotUsername          string
}

// Server is the webhook-facing HTTP listener.
type Server struct {
	cfg       Config
	handler   UpdateHandler
	limiter   *resilience.KeyLimiter
	logger    *zerolog.Logger
	startTime time.Time
	boundPort atomic.Int64
}

func New(cfg Config, handler UpdateHandler, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		handler:   handler,
		limiter:   resilience.NewKeyLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitWindow),
		logger:    logger,
		startTime: time.Now(),
	}
}

// Start binds a port (probing upward on conflict), then serves until ctx is
// canceled. Returns ErrBindExhausted when the probe limit is reached.
func (s *Server) Start(ctx context.Context) error {
	listener, port, err := s.bind()
	if err != nil {
		return err
	}

	s.boundPort.Store(int64(port))

	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", port).Msg("delivery listener starting")

	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// BoundPort returns the port the listener bound, or 0 before binding.
func (s *Server) BoundPort() int {
	return int(s.boundPort.Load())
}

func (s *Server) bind() (net.Listener, int, error) {
	probeLimit := s.cfg.PortProbeLimit
	if probeLimit <= 0 {
		probeLimit = 1
	}

	for attempt := 0; attempt < probeLimit; attempt++ {
		port := s.cfg.Port + attempt

		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return listener, listener.Addr().(*net.TCPAddr).Port, nil
		}

		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, fmt.Errorf("bind port %d: %w", port, err)
		}

		s.logger.Warn().Int("port", port).Msg("port in use, probing next")
	}

	return nil, 0, fmt.Errorf("%w: started at %d, tried %d ports", ErrBindExhausted, s.cfg.Port, probeLimit)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleLiveness)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.rateLimit(mux)
}

// rateLimit caps requests per client address. This is abuse protection at
// the network layer, independent of the per-chat download quota.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !s.limiter.Allow(host) {
			s.logger.Warn().Str("client", host).Msg("rate limit exceeded")
			http.Error(w, "too many requests", http.StatusTooManyRequests)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, "Telegram Bot is running!")
}

type statusResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Port      int     `json:"port"`
	BotInfo   botInfo `json:"botInfo"`
}

type botInfo struct {
	Username  string `json:"username"`
	StartTime string `json:"startTime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Port:      s.BoundPort(),
		BotInfo: botInfo{
			Username:  s.cfg.BotUsername,
			StartTime: s.startTime.UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode status response")
	}
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBodySize)

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.Error().Err(err).Msg("failed to decode webhook update")
		observability.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusInternalServerError)).Inc()
		http.Error(w, "bad update payload", http.StatusInternalServerError)

		return
	}

	// Synchronous hand-off: business failures are reported to the chat by
	// the handler, never through the HTTP response.
	s.handler.HandleUpdate(r.Context(), update)

	observability.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	w.WriteHeader(http.StatusOK)
}

package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fullsave/mediabot/internal/classify"
	"github.com/fullsave/mediabot/internal/platform/observability"
	"github.com/fullsave/mediabot/internal/platform/resilience"
)

const tiktokDefaultTimeout = 30 * time.Second

var (
	errTikTokUnexpectedStatus = errors.New("tiktok unexpected status")
	errTikTokAPIError         = errors.New("tiktok api error")
	errTikTokNoVideo          = errors.New("tiktok response contains no video urls")
)

// TikTokResolver resolves TikTok video URLs through a downloader API that
// returns a list of direct video URLs. The first list element is used.
type TikTokResolver struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   resilience.RetryConfig
}

// TikTokConfig configures the TikTok resolver.
type TikTokConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   resilience.RetryConfig
}

func NewTikTokResolver(cfg TikTokConfig) *TikTokResolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = tiktokDefaultTimeout
	}

	return &TikTokResolver{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   cfg.Retry,
	}
}

func (r *TikTokResolver) Provider() classify.Provider {
	return classify.TikTok
}

func (r *TikTokResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	mediaURL, err := resilience.Retry(ctx, r.retryCfg, func() (string, error) {
		observability.ResolverAttemptsTotal.WithLabelValues(string(classify.TikTok)).Inc()

		return r.fetch(ctx, rawURL)
	})
	if err != nil {
		return "", &Error{Provider: classify.TikTok, Err: err}
	}

	return mediaURL, nil
}

type tiktokResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		Video []string `json:"video"`
	} `json:"result"`
}

func (r *TikTokResolver) fetch(ctx context.Context, rawURL string) (string, error) {
	endpoint := r.baseURL + "/api/download?url=" + url.QueryEscape(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create tiktok request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tiktok request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", errTikTokUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tiktok response: %w", err)
	}

	var parsed tiktokResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse tiktok json: %w", err)
	}

	if parsed.Status != "success" {
		msg := parsed.Message
		if msg == "" {
			msg = "unknown failure"
		}

		return "", fmt.Errorf("%w: %s", errTikTokAPIError, msg)
	}

	if len(parsed.Result.Video) == 0 {
		return "", errTikTokNoVideo
	}

	return parsed.Result.Video[0], nil
}

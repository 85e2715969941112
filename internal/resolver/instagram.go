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

const (
	instagramBaseURL        = "https://api.instagram.com"
	instagramDefaultTimeout = 30 * time.Second
)

var (
	errInstagramUnexpectedStatus = errors.New("instagram unexpected status")
	errInstagramEmptyResponse    = errors.New("instagram response missing thumbnail url")
)

// InstagramResolver resolves Instagram post URLs via the oembed endpoint.
type InstagramResolver struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   resilience.RetryConfig
}

// InstagramConfig configures the Instagram resolver.
type InstagramConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   resilience.RetryConfig
}

func NewInstagramResolver(cfg InstagramConfig) *InstagramResolver {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = instagramBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = instagramDefaultTimeout
	}

	return &InstagramResolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   cfg.Retry,
	}
}

func (r *InstagramResolver) Provider() classify.Provider {
	return classify.Instagram
}

func (r *InstagramResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	mediaURL, err := resilience.Retry(ctx, r.retryCfg, func() (string, error) {
		observability.ResolverAttemptsTotal.WithLabelValues(string(classify.Instagram)).Inc()

		return r.fetch(ctx, rawURL)
	})
	if err != nil {
		return "", &Error{Provider: classify.Instagram, Err: err}
	}

	return mediaURL, nil
}

func (r *InstagramResolver) fetch(ctx context.Context, rawURL string) (string, error) {
	endpoint := r.baseURL + "/oembed/?url=" + url.QueryEscape(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create instagram request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("instagram request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", errInstagramUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read instagram response: %w", err)
	}

	var oembed struct {
		ThumbnailURL string `json:"thumbnail_url"`
	}

	if err := json.Unmarshal(body, &oembed); err != nil {
		return "", fmt.Errorf("parse instagram json: %w", err)
	}

	if oembed.ThumbnailURL == "" {
		return "", errInstagramEmptyResponse
	}

	return oembed.ThumbnailURL, nil
}

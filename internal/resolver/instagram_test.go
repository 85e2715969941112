package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fullsave/mediabot/internal/classify"
	"github.com/fullsave/mediabot/internal/platform/resilience"
)

const testPostURL = "https://instagram.com/p/abc"

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}
}

func TestInstagramResolverSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, testPostURL, r.URL.Query().Get("url"))

		_, err := w.Write([]byte(`{"thumbnail_url": "https://cdn.example.com/media.jpg"}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	r := NewInstagramResolver(InstagramConfig{BaseURL: ts.URL, Retry: fastRetry()})

	mediaURL, err := r.Resolve(context.Background(), testPostURL)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/media.jpg", mediaURL)
}

func TestInstagramResolverRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, err := w.Write([]byte(`{"thumbnail_url": "https://cdn.example.com/media.jpg"}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	r := NewInstagramResolver(InstagramConfig{BaseURL: ts.URL, Retry: fastRetry()})

	mediaURL, err := r.Resolve(context.Background(), testPostURL)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/media.jpg", mediaURL)
	require.Equal(t, int64(3), calls.Load())
}

func TestInstagramResolverExhaustsAttempts(t *testing.T) {
	var calls atomic.Int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	r := NewInstagramResolver(InstagramConfig{BaseURL: ts.URL, Retry: fastRetry()})

	_, err := r.Resolve(context.Background(), testPostURL)
	require.Error(t, err)
	require.Equal(t, int64(3), calls.Load())

	var resErr *Error
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, classify.Instagram, resErr.Provider)
	require.ErrorIs(t, err, errInstagramUnexpectedStatus)
}

func TestInstagramResolverMissingThumbnail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`{"title": "no media here"}`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	r := NewInstagramResolver(InstagramConfig{BaseURL: ts.URL, Retry: fastRetry()})

	_, err := r.Resolve(context.Background(), testPostURL)
	require.ErrorIs(t, err, errInstagramEmptyResponse)
}

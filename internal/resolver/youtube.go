package resolver

import (
	"context"
	"errors"
	"net/http"
	"time"

	youtube "github.com/kkdai/youtube/v2"

	"github.com/fullsave/mediabot/internal/classify"
	"github.com/fullsave/mediabot/internal/platform/observability"
	"github.com/fullsave/mediabot/internal/platform/resilience"
)

const youtubeDefaultTimeout = 30 * time.Second

var errYouTubeNoMuxedFormat = errors.New("youtube video has no muxed format")

// YouTubeResolver resolves YouTube watch URLs by fetching format metadata
// and selecting the highest-bitrate muxed (audio+video) format.
type YouTubeResolver struct {
	client   *youtube.Client
	retryCfg resilience.RetryConfig
}

// YouTubeConfig configures the YouTube resolver.
type YouTubeConfig struct {
	Timeout time.Duration
	Retry   resilience.RetryConfig
}

func NewYouTubeResolver(cfg YouTubeConfig) *YouTubeResolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = youtubeDefaultTimeout
	}

	return &YouTubeResolver{
		client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: timeout},
		},
		retryCfg: cfg.Retry,
	}
}

func (r *YouTubeResolver) Provider() classify.Provider {
	return classify.YouTube
}

func (r *YouTubeResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	mediaURL, err := resilience.Retry(ctx, r.retryCfg, func() (string, error) {
		observability.ResolverAttemptsTotal.WithLabelValues(string(classify.YouTube)).Inc()

		return r.fetch(ctx, rawURL)
	})
	if err != nil {
		return "", &Error{Provider: classify.YouTube, Err: err}
	}

	return mediaURL, nil
}

func (r *YouTubeResolver) fetch(ctx context.Context, rawURL string) (string, error) {
	video, err := r.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return "", err
	}

	format := bestMuxedFormat(video.Formats)
	if format == nil {
		return "", resilience.Permanent(errYouTubeNoMuxedFormat)
	}

	streamURL, err := r.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return "", err
	}

	return streamURL, nil
}

// bestMuxedFormat picks the highest-bitrate format that carries both audio
// and video. Returns nil when no such format exists.
func bestMuxedFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format

	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || f.QualityLabel == "" {
			continue
		}

		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}

	return best
}

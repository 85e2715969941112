package resolver

import (
	"testing"

	youtube "github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/require"
)

func TestBestMuxedFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 137, Bitrate: 4000000, AudioChannels: 0, QualityLabel: "1080p"}, // video-only
		{ItagNo: 18, Bitrate: 500000, AudioChannels: 2, QualityLabel: "360p"},
		{ItagNo: 22, Bitrate: 2000000, AudioChannels: 2, QualityLabel: "720p"},
		{ItagNo: 140, Bitrate: 130000, AudioChannels: 2}, // audio-only
	}

	best := bestMuxedFormat(formats)
	require.NotNil(t, best)
	require.Equal(t, 22, best.ItagNo)
}

func TestBestMuxedFormatNoAudio(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 137, Bitrate: 4000000, AudioChannels: 0},
		{ItagNo: 136, Bitrate: 2000000, AudioChannels: 0},
	}

	require.Nil(t, bestMuxedFormat(formats))
}

func TestBestMuxedFormatEmpty(t *testing.T) {
	require.Nil(t, bestMuxedFormat(nil))
}

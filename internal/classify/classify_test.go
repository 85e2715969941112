package classify

import "testing"

const errClassifyFmt = "Classify(%q).Provider = %q, want %q"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		provider Provider
		url      string
	}{
		{
			name:     "instagram post",
			text:     "https://instagram.com/p/abc",
			provider: Instagram,
			url:      "https://instagram.com/p/abc",
		},
		{
			name:     "instagram www subdomain",
			text:     "https://www.instagram.com/reel/xyz/",
			provider: Instagram,
			url:      "https://www.instagram.com/reel/xyz/",
		},
		{
			name:     "tiktok with surrounding text",
			text:     "check this out https://www.tiktok.com/@u/video/123",
			provider: TikTok,
			url:      "https://www.tiktok.com/@u/video/123",
		},
		{
			name:     "tiktok short host",
			text:     "https://vm.tiktok.com/ZMabcdef/",
			provider: TikTok,
			url:      "https://vm.tiktok.com/ZMabcdef/",
		},
		{
			name:     "youtube watch",
			text:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			provider: YouTube,
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:     "youtu.be short link",
			text:     "https://youtu.be/dQw4w9WgXcQ",
			provider: YouTube,
			url:      "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name:     "trailing punctuation trimmed",
			text:     "look: https://youtu.be/dQw4w9WgXcQ!",
			provider: YouTube,
			url:      "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name:     "plain text",
			text:     "hello world",
			provider: Unsupported,
		},
		{
			name:     "empty",
			text:     "",
			provider: Unsupported,
		},
		{
			name:     "bare host without scheme",
			text:     "instagram.com/p/abc",
			provider: Unsupported,
		},
		{
			name:     "provider name as substring",
			text:     "not-a-url-instagram.com-mentioned",
			provider: Unsupported,
		},
		{
			name:     "lookalike domain",
			text:     "https://notinstagram.com/p/abc",
			provider: Unsupported,
		},
		{
			name:     "unsupported site",
			text:     "https://example.com/video/1",
			provider: Unsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)

			if got.Provider != tt.provider {
				t.Errorf(errClassifyFmt, tt.text, got.Provider, tt.provider)
			}

			if tt.url != "" && got.URL != tt.url {
				t.Errorf("Classify(%q).URL = %q, want %q", tt.text, got.URL, tt.url)
			}

			if got.Raw != tt.text {
				t.Errorf("Classify(%q).Raw = %q, want original text", tt.text, got.Raw)
			}
		})
	}
}

func TestClassifyFirstURLWins(t *testing.T) {
	got := Classify("https://youtu.be/abc and https://instagram.com/p/def")

	if got.Provider != YouTube {
		t.Errorf("expected first URL to decide the provider, got %q", got.Provider)
	}
}

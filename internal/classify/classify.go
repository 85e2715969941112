// Package classify maps raw message text to a media provider.
//
// Classification is strict: a scheme-prefixed URL must be present in the
// text and its hostname must belong to a supported provider domain. Bare
// hostnames and provider names embedded in arbitrary text are rejected,
// so adversarial input like "not-a-url-instagram.com-mentioned" classifies
// as Unsupported.
package classify

import (
	"net/url"
	"regexp"
	"strings"
)

// Provider identifies the media service a URL belongs to.
type Provider string

const (
	Instagram   Provider = "instagram"
	TikTok      Provider = "tiktok"
	YouTube     Provider = "youtube"
	Unsupported Provider = "unsupported"
)

// Result is a classified URL. Immutable once created.
type Result struct {
	Raw      string
	URL      string
	Provider Provider
}

var urlRegex = regexp.MustCompile(`https?://[^\s<>"{}|\\^\x60\[\]]+`)

// providerDomains maps registrable domains to their provider tag.
var providerDomains = map[string]Provider{
	"instagram.com": Instagram,
	"tiktok.com":    TikTok,
	"youtube.com":   YouTube,
	"youtu.be":      YouTube,
}

// Classify extracts the first URL from text and tags it with a provider.
// Returns a Result with Provider Unsupported when no URL is found or the
// host does not belong to a supported provider.
func Classify(text string) Result {
	res := Result{Raw: text, Provider: Unsupported}

	match := urlRegex.FindString(text)
	if match == "" {
		return res
	}

	rawURL := strings.TrimRight(match, ".,;:!?)")

	u, err := url.Parse(rawURL)
	if err != nil {
		return res
	}

	res.URL = rawURL
	res.Provider = providerForHost(u.Hostname())

	return res
}

func providerForHost(host string) Provider {
	host = strings.ToLower(host)

	for domain, provider := range providerDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return provider
		}
	}

	return Unsupported
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fullsave/mediabot/internal/classify"
)

const (
	breakerInterval = time.Minute
	breakerTimeout  = 30 * time.Second
)

// Router dispatches a classified URL to the matching resolver. The dispatch
// table is closed: providers are fixed at construction time. Each provider
// sits behind its own circuit breaker so a persistently failing provider
// fails fast instead of burning its full retry budget on every request.
type Router struct {
	entries map[classify.Provider]*routerEntry
}

type routerEntry struct {
	resolver Resolver
	breaker  *gobreaker.CircuitBreaker[string]
}

// NewRouter builds the dispatch table from the given resolvers.
func NewRouter(resolvers ...Resolver) *Router {
	entries := make(map[classify.Provider]*routerEntry, len(resolvers))

	for _, r := range resolvers {
		entries[r.Provider()] = &routerEntry{
			resolver: r,
			breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
				Name:     string(r.Provider()),
				Interval: breakerInterval,
				Timeout:  breakerTimeout,
			}),
		}
	}

	return &Router{entries: entries}
}

// Route resolves the classified URL through the matching provider resolver.
// Unsupported URLs short-circuit with ErrUnsupportedURL.
func (r *Router) Route(ctx context.Context, classified classify.Result) (string, error) {
	entry, ok := r.entries[classified.Provider]
	if !ok {
		return "", &Error{Provider: classified.Provider, Err: ErrUnsupportedURL}
	}

	mediaURL, err := entry.breaker.Execute(func() (string, error) {
		return entry.resolver.Resolve(ctx, classified.URL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &Error{Provider: classified.Provider, Err: fmt.Errorf("provider unavailable: %w", err)}
		}

		return "", err
	}

	return mediaURL, nil
}

// Package resolver converts provider-specific URLs into directly fetchable
// media URLs. Each provider has its own resolver with an internal retry
// budget; the Router dispatches classified URLs to the matching resolver.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/fullsave/mediabot/internal/classify"
)

// ErrUnsupportedURL is returned by the Router for URLs that do not belong
// to any supported provider. No resolver is invoked for them.
var ErrUnsupportedURL = errors.New("unsupported url")

// Resolver resolves a provider URL into a direct media URL. Implementations
// are stateless and safe for concurrent use.
type Resolver interface {
	Provider() classify.Provider
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Error is a terminal resolution failure carrying the provider name and the
// last underlying error after the retry budget is exhausted.
type Error struct {
	Provider classify.Provider
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s resolution failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

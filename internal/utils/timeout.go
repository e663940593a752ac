package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout caps a single storage round trip. A stuck query surfaces
// as a context error instead of a hang.
const DefaultDBTimeout = 5 * time.Second

// WithDBTimeout derives the context every repository call runs under.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultDBTimeout)
}

// Package correlationid carries a per-request correlation identifier through a context.
package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate the correlation ID.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the given correlation ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation ID stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Generate returns a new random correlation ID.
func Generate() string {
	return uuid.NewString()
}

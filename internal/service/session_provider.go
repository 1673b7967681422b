package service

import (
	"context"

	"marketplace-core/internal/core/domain"
)

// ContextSessionProvider implements ports.SessionProvider by reading the
// session the HTTP middleware stored on the request context.
type ContextSessionProvider struct{}

// NewContextSessionProvider creates a ContextSessionProvider.
func NewContextSessionProvider() *ContextSessionProvider {
	return &ContextSessionProvider{}
}

// Current returns the request's session, Unauthenticated if none was set.
func (ContextSessionProvider) Current(ctx context.Context) domain.Session {
	return domain.SessionFromContext(ctx)
}

package ports

import (
	"context"

	"github.com/healytics/healytics-client/internal/core/domain"
)

// SessionController is the surface views use to drive authentication.
type SessionController interface {
	Snapshot() domain.Session
	Login(ctx context.Context, req domain.LoginRequest) error
	Register(ctx context.Context, req domain.RegisterRequest) error
	Logout()
	Restore(ctx context.Context) error
	Subscribe(fn func(domain.Session)) (unsubscribe func())
}

// AccessController answers whether a view may render right now and keeps
// answering as the session changes.
type AccessController interface {
	Evaluate(requirement domain.AccessRequirement) domain.AccessDecision
	Watch(requirement domain.AccessRequirement, fn func(domain.AccessDecision)) (stop func())
}

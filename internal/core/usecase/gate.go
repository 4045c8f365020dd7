package usecase

import (
	"sync"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
)

// AccessGate answers whether a view may render under the current session
// and keeps answering as the session moves. The decision logic itself
// lives in the domain; the gate only binds it to the live session.
type AccessGate struct {
	sessions ports.SessionController
}

var _ ports.AccessController = (*AccessGate)(nil)

func NewAccessGate(sessions ports.SessionController) *AccessGate {
	return &AccessGate{sessions: sessions}
}

func (g *AccessGate) Evaluate(requirement domain.AccessRequirement) domain.AccessDecision {
	return domain.Authorize(requirement, g.sessions.Snapshot().Status)
}

// Watch delivers the current decision immediately and again after every
// session transition that changes it. Unchanged decisions are suppressed
// so a subscriber never re-renders for nothing.
func (g *AccessGate) Watch(requirement domain.AccessRequirement, fn func(domain.AccessDecision)) func() {
	var mu sync.Mutex
	last := domain.Authorize(requirement, g.sessions.Snapshot().Status)
	fn(last)

	unsubscribe := g.sessions.Subscribe(func(session domain.Session) {
		decision := domain.Authorize(requirement, session.Status)
		mu.Lock()
		changed := decision != last
		last = decision
		mu.Unlock()
		if changed {
			fn(decision)
		}
	})
	return unsubscribe
}

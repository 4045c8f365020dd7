package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
	"github.com/healytics/healytics-client/internal/observability/metrics"
)

const serviceName = "healytics-client"

// SessionStore is the single authority over the process session. All
// status transitions happen here; everything else observes through
// Snapshot and Subscribe. It doubles as the token source for the API
// client, so a logout starves outbound requests of the credential
// immediately.
type SessionStore struct {
	auth    ports.AuthAPI
	creds   ports.CredentialStore
	check   *validator.Validate
	log     *slog.Logger
	metrics *metrics.ClientMetrics

	mu          sync.Mutex
	session     domain.Session
	stored      domain.Credentials
	restoring   chan struct{}
	restoreErr  error
	subscribers map[int]func(domain.Session)
	nextSubID   int
}

var _ ports.SessionController = (*SessionStore)(nil)
var _ ports.TokenSource = (*SessionStore)(nil)

func NewSessionStore(auth ports.AuthAPI, creds ports.CredentialStore, log *slog.Logger, m *metrics.ClientMetrics) *SessionStore {
	if log == nil {
		log = slog.Default()
	}
	return &SessionStore{
		auth:        auth,
		creds:       creds,
		check:       validator.New(),
		log:         log,
		metrics:     m,
		session:     domain.Session{Status: domain.StatusUnknown},
		subscribers: make(map[int]func(domain.Session)),
	}
}

// SetAuthAPI attaches the backend service after construction. The store
// and the API client depend on each other (the client pulls its bearer
// token from the store), so one side has to be wired late. Must be
// called before any authentication operation.
func (s *SessionStore) SetAuthAPI(auth ports.AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

func (s *SessionStore) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() domain.Session {
	out := s.session
	if s.session.Identity != nil {
		identity := *s.session.Identity
		out.Identity = &identity
	}
	return out
}

func (s *SessionStore) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// transition updates the session and fans the new snapshot out to every
// subscriber. Callbacks run outside the lock so a subscriber may call
// back into the store.
func (s *SessionStore) transition(session domain.Session) {
	s.mu.Lock()
	s.session = session
	snapshot := s.snapshotLocked()
	fns := make([]func(domain.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.metrics.RecordSessionTransition(serviceName, string(session.Status))
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (s *SessionStore) Login(ctx context.Context, req domain.LoginRequest) error {
	if err := s.check.Struct(req); err != nil {
		return validationError("login", err)
	}

	s.transition(domain.Session{Status: domain.StatusAuthenticating})

	grant, err := s.auth.Login(ctx, req)
	if err != nil {
		s.log.Warn("login_failed", "username", req.Username, "error", err)
		s.transition(domain.Session{Status: domain.StatusAnonymous})
		return err
	}
	return s.adopt(ctx, grant)
}

func (s *SessionStore) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := s.check.Struct(req); err != nil {
		return validationError("register", err)
	}

	s.transition(domain.Session{Status: domain.StatusAuthenticating})

	grant, err := s.auth.Register(ctx, req)
	if err != nil {
		s.log.Warn("registration_failed", "username", req.Username, "error", err)
		s.transition(domain.Session{Status: domain.StatusAnonymous})
		return err
	}
	return s.adopt(ctx, grant)
}

func (s *SessionStore) adopt(ctx context.Context, grant domain.AuthGrant) error {
	stored := domain.Credentials{Access: grant.Access, Refresh: grant.Refresh}
	if err := s.creds.Save(ctx, stored); err != nil {
		// The session is still usable for this process lifetime.
		s.log.Warn("credential_persist_failed", "error", err)
	}

	s.mu.Lock()
	s.stored = stored
	s.mu.Unlock()

	identity := grant.User
	s.transition(domain.Session{
		Token:    grant.Access,
		Identity: &identity,
		Status:   domain.StatusAuthenticated,
	})
	s.log.Info("session_authenticated", "username", identity.Username)
	return nil
}

// Logout is synchronous: by the time it returns no outbound request can
// pick up the old credential, regardless of how the storage clear went.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.stored = domain.Credentials{}
	s.mu.Unlock()

	s.transition(domain.Session{Status: domain.StatusAnonymous})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn("credential_clear_failed", "error", err)
	}
	s.log.Info("session_cleared")
}

// Restore resolves the startup session from persisted credentials. It is
// idempotent; concurrent callers share a single in-flight resolution and
// all observe the same outcome.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.session.Resolved() {
		s.mu.Unlock()
		return nil
	}
	if s.restoring != nil {
		waiter := s.restoring
		s.mu.Unlock()
		select {
		case <-waiter:
			s.mu.Lock()
			err := s.restoreErr
			s.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	done := make(chan struct{})
	s.restoring = done
	s.mu.Unlock()

	err := s.restore(ctx)

	s.mu.Lock()
	s.restoreErr = err
	s.restoring = nil
	s.mu.Unlock()
	close(done)
	return err
}

func (s *SessionStore) restore(ctx context.Context) error {
	stored, err := s.creds.Load(ctx)
	if err != nil {
		// Unreadable storage degrades to a signed-out session rather
		// than blocking startup.
		s.log.Warn("credential_load_failed", "error", err)
		s.transition(domain.Session{Status: domain.StatusAnonymous})
		return nil
	}
	if stored.Empty() {
		s.transition(domain.Session{Status: domain.StatusAnonymous})
		return nil
	}

	s.mu.Lock()
	s.stored = stored
	s.mu.Unlock()
	s.transition(domain.Session{Token: stored.Access, Status: domain.StatusAuthenticating})

	if stored.Access != "" && !tokenExpired(stored.Access, time.Now()) {
		identity, err := s.auth.Profile(ctx)
		if err == nil {
			s.transition(domain.Session{
				Token:    stored.Access,
				Identity: &identity,
				Status:   domain.StatusAuthenticated,
			})
			s.log.Info("session_restored", "username", identity.Username)
			return nil
		}
		if !domain.IsKind(err, domain.ErrUnauthorized) {
			s.log.Warn("session_validation_failed", "error", err)
			s.discard(ctx)
			return nil
		}
		// Stale access token; fall through to the refresh path.
	}

	if stored.Refresh == "" {
		s.discard(ctx)
		return nil
	}

	access, err := s.auth.RefreshAccess(ctx, stored.Refresh)
	if err != nil {
		s.log.Warn("token_refresh_failed", "error", err)
		s.discard(ctx)
		return nil
	}

	refreshed := domain.Credentials{Access: access, Refresh: stored.Refresh}
	if err := s.creds.Save(ctx, refreshed); err != nil {
		s.log.Warn("credential_persist_failed", "error", err)
	}
	s.mu.Lock()
	s.stored = refreshed
	s.mu.Unlock()
	s.transition(domain.Session{Token: access, Status: domain.StatusAuthenticating})

	identity, err := s.auth.Profile(ctx)
	if err != nil {
		s.log.Warn("session_validation_failed", "error", err)
		s.discard(ctx)
		return nil
	}

	s.transition(domain.Session{
		Token:    access,
		Identity: &identity,
		Status:   domain.StatusAuthenticated,
	})
	s.log.Info("session_restored", "username", identity.Username)
	return nil
}

func (s *SessionStore) discard(ctx context.Context) {
	s.mu.Lock()
	s.stored = domain.Credentials{}
	s.mu.Unlock()
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn("credential_clear_failed", "error", err)
	}
	s.transition(domain.Session{Status: domain.StatusAnonymous})
}

// tokenExpired inspects the expiry claim without verifying the signature.
// Verification is the backend's job; locally the claim only decides
// whether attempting the access token is worth a round trip. Tokens that
// do not parse are treated as expired.
func tokenExpired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(now)
}

// validationError reduces validator output to one human-readable message
// carried through the error chain as an ErrorInfo.
func validationError(operation string, err error) error {
	msg := "please check the submitted fields"
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		field := strings.ToLower(first.Field())
		switch first.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", field, first.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
	}
	return domain.WrapError(domain.ErrValidation, operation,
		domain.ErrorInfo{Message: msg, Origin: domain.OriginValidation})
}

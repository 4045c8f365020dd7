package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/healytics/healytics-client/internal/core/domain"
)

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiry.Unix(),
		"sub": "tester",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestLoginTransitionsAndPersists(t *testing.T) {
	auth := &fakeAuthAPI{
		loginFn: func(_ context.Context, req domain.LoginRequest) (domain.AuthGrant, error) {
			return domain.AuthGrant{
				User:    domain.Identity{Username: req.Username, FirstName: "Ada"},
				Access:  "access-1",
				Refresh: "refresh-1",
			}, nil
		},
	}
	creds := &memoryCredentialStore{}
	store := NewSessionStore(auth, creds, nil, nil)

	var seen []domain.SessionStatus
	var mu sync.Mutex
	unsubscribe := store.Subscribe(func(s domain.Session) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})
	defer unsubscribe()

	err := store.Login(context.Background(), domain.LoginRequest{Username: "ada", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	snapshot := store.Snapshot()
	if snapshot.Status != domain.StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", snapshot.Status)
	}
	if snapshot.Identity == nil || snapshot.Identity.DisplayName() != "Ada" {
		t.Fatalf("identity = %+v, want Ada", snapshot.Identity)
	}
	if store.Token() != "access-1" {
		t.Fatalf("Token() = %q, want access-1", store.Token())
	}
	if got := creds.stored(); got.Access != "access-1" || got.Refresh != "refresh-1" {
		t.Fatalf("persisted credentials = %+v", got)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []domain.SessionStatus{domain.StatusAuthenticating, domain.StatusAuthenticated}
	if len(seen) != len(want) {
		t.Fatalf("observed transitions %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestLoginFailureEndsAnonymous(t *testing.T) {
	auth := &fakeAuthAPI{
		loginFn: func(context.Context, domain.LoginRequest) (domain.AuthGrant, error) {
			return domain.AuthGrant{}, domain.WrapError(domain.ErrHTTP, "login",
				domain.ErrorInfo{Message: "Invalid credentials", Origin: domain.OriginHTTP})
		},
	}
	store := NewSessionStore(auth, &memoryCredentialStore{}, nil, nil)

	err := store.Login(context.Background(), domain.LoginRequest{Username: "ada", Password: "wrong"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if info := domain.ErrorInfoFrom(err); info.Message != "Invalid credentials" {
		t.Fatalf("message = %q", info.Message)
	}
	if store.Snapshot().Status != domain.StatusAnonymous {
		t.Fatalf("status = %s, want anonymous", store.Snapshot().Status)
	}
	if store.Token() != "" {
		t.Fatalf("token must be empty after failed login")
	}
}

func TestLoginValidatesBeforeCalling(t *testing.T) {
	auth := &fakeAuthAPI{}
	store := NewSessionStore(auth, &memoryCredentialStore{}, nil, nil)

	err := store.Login(context.Background(), domain.LoginRequest{Username: "ada"})
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if info := domain.ErrorInfoFrom(err); info.Origin != domain.OriginValidation {
		t.Fatalf("origin = %s, want validation", info.Origin)
	}
	if auth.loginCalls != 0 {
		t.Fatalf("invalid form must not reach the backend")
	}
}

func TestLogoutStarvesTokenImmediately(t *testing.T) {
	auth := &fakeAuthAPI{
		loginFn: func(context.Context, domain.LoginRequest) (domain.AuthGrant, error) {
			return domain.AuthGrant{User: domain.Identity{Username: "ada"}, Access: "access-1", Refresh: "refresh-1"}, nil
		},
	}
	creds := &memoryCredentialStore{}
	store := NewSessionStore(auth, creds, nil, nil)
	if err := store.Login(context.Background(), domain.LoginRequest{Username: "ada", Password: "hunter22"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	store.Logout()

	if store.Token() != "" {
		t.Fatalf("Token() = %q after logout, want empty", store.Token())
	}
	if store.Snapshot().Status != domain.StatusAnonymous {
		t.Fatalf("status = %s, want anonymous", store.Snapshot().Status)
	}
	if !creds.stored().Empty() {
		t.Fatalf("credentials not cleared: %+v", creds.stored())
	}
}

func TestRestoreWithoutCredentialsIsAnonymous(t *testing.T) {
	auth := &fakeAuthAPI{}
	store := NewSessionStore(auth, &memoryCredentialStore{}, nil, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if store.Snapshot().Status != domain.StatusAnonymous {
		t.Fatalf("status = %s, want anonymous", store.Snapshot().Status)
	}
	if auth.profileCalls != 0 || auth.refreshCalls != 0 {
		t.Fatalf("empty credentials must not reach the backend")
	}
}

func TestRestoreValidatesFreshAccessToken(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	auth := &fakeAuthAPI{
		profileFn: func(context.Context) (domain.Identity, error) {
			return domain.Identity{Username: "ada"}, nil
		},
	}
	creds := &memoryCredentialStore{creds: domain.Credentials{Access: access, Refresh: "refresh-1"}}
	store := NewSessionStore(auth, creds, nil, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	snapshot := store.Snapshot()
	if snapshot.Status != domain.StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", snapshot.Status)
	}
	if store.Token() != access {
		t.Fatalf("restored token mismatch")
	}
	if auth.refreshCalls != 0 {
		t.Fatalf("fresh access token must not be refreshed")
	}
}

func TestRestoreRefreshesExpiredAccessToken(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	fresh := signedToken(t, time.Now().Add(time.Hour))
	auth := &fakeAuthAPI{
		refreshFn: func(_ context.Context, refreshToken string) (string, error) {
			if refreshToken != "refresh-1" {
				return "", fmt.Errorf("unexpected refresh token %q", refreshToken)
			}
			return fresh, nil
		},
		profileFn: func(context.Context) (domain.Identity, error) {
			return domain.Identity{Username: "ada"}, nil
		},
	}
	creds := &memoryCredentialStore{creds: domain.Credentials{Access: expired, Refresh: "refresh-1"}}
	store := NewSessionStore(auth, creds, nil, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if store.Snapshot().Status != domain.StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", store.Snapshot().Status)
	}
	if store.Token() != fresh {
		t.Fatalf("expected refreshed access token to be adopted")
	}
	if got := creds.stored(); got.Access != fresh {
		t.Fatalf("refreshed token not persisted: %+v", got)
	}
	if auth.profileCalls == 0 {
		t.Fatalf("refreshed token must still be validated")
	}
}

func TestRestoreFailedRefreshDiscardsCredentials(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	auth := &fakeAuthAPI{
		refreshFn: func(context.Context, string) (string, error) {
			return "", domain.WrapError(domain.ErrUnauthorized, "refresh access", errors.New("refresh token revoked"))
		},
	}
	creds := &memoryCredentialStore{creds: domain.Credentials{Access: expired, Refresh: "refresh-1"}}
	store := NewSessionStore(auth, creds, nil, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if store.Snapshot().Status != domain.StatusAnonymous {
		t.Fatalf("status = %s, want anonymous", store.Snapshot().Status)
	}
	if !creds.stored().Empty() {
		t.Fatalf("stale credentials must be discarded")
	}
}

func TestRestoreUnreadableStorageDegradesToAnonymous(t *testing.T) {
	creds := &memoryCredentialStore{loadErr: errors.New("disk unreadable")}
	store := NewSessionStore(&fakeAuthAPI{}, creds, nil, nil)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if store.Snapshot().Status != domain.StatusAnonymous {
		t.Fatalf("status = %s, want anonymous", store.Snapshot().Status)
	}
}

func TestConcurrentRestoreSharesOneResolution(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	release := make(chan struct{})
	auth := &fakeAuthAPI{
		profileFn: func(context.Context) (domain.Identity, error) {
			<-release
			return domain.Identity{Username: "ada"}, nil
		},
	}
	creds := &memoryCredentialStore{creds: domain.Credentials{Access: access}}
	store := NewSessionStore(auth, creds, nil, nil)

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Restore(context.Background())
		}(i)
	}

	// Let every caller reach either the resolution or the waiters.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: Restore() error = %v", i, err)
		}
	}
	if auth.profileCalls != 1 {
		t.Fatalf("profile validated %d times, want 1", auth.profileCalls)
	}
	if store.Snapshot().Status != domain.StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", store.Snapshot().Status)
	}

	// A later call on a resolved session is a no-op.
	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() after resolution error = %v", err)
	}
	if auth.profileCalls != 1 {
		t.Fatalf("resolved session must not be re-validated")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"future expiry", signedToken(t, now.Add(time.Hour)), false},
		{"past expiry", signedToken(t, now.Add(-time.Minute)), true},
		{"unparseable", "not-a-jwt", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tokenExpired(tc.token, now); got != tc.want {
				t.Fatalf("tokenExpired() = %v, want %v", got, tc.want)
			}
		})
	}
}

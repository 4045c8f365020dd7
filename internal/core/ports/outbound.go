package ports

import (
	"context"

	"github.com/healytics/healytics-client/internal/core/domain"
)

// TokenSource exposes the current bearer token for outbound requests.
// Read-only: only the session store mutates the underlying credential.
type TokenSource interface {
	Token() string
}

// CredentialStore persists the bearer credentials across restarts.
type CredentialStore interface {
	Load(ctx context.Context) (domain.Credentials, error)
	Save(ctx context.Context, creds domain.Credentials) error
	Clear(ctx context.Context) error
}

// AuthAPI drives the authentication endpoints.
type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthGrant, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthGrant, error)
	RefreshAccess(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context) (domain.Identity, error)
}

// PredictionAPI submits images for analysis and reads history.
type PredictionAPI interface {
	Analyze(ctx context.Context, image domain.ImageUpload) (domain.PredictionResult, error)
	History(ctx context.Context) (domain.Collection[domain.PredictionRecord], error)
}

// BlogAPI reads and authors articles.
type BlogAPI interface {
	List(ctx context.Context) (domain.Collection[domain.Blog], error)
	Get(ctx context.Context, id int) (domain.Blog, error)
	Create(ctx context.Context, draft domain.BlogDraft) (domain.Blog, error)
	Bookmark(ctx context.Context, id int) (string, error)
	RemoveBookmark(ctx context.Context, id int) (string, error)
	Bookmarks(ctx context.Context) (domain.Collection[domain.Bookmark], error)
}

// ChatAPI performs one assistant turn.
type ChatAPI interface {
	Send(ctx context.Context, message string) (string, error)
}

// StatsAPI fetches the dashboard summary.
type StatsAPI interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// ContactAPI submits the contact form.
type ContactAPI interface {
	Send(ctx context.Context, msg domain.ContactMessage) (string, error)
}

// HealthAPI probes backend liveness.
type HealthAPI interface {
	Check(ctx context.Context) (string, error)
}

package usecase

import (
	"context"
	"sync"

	"github.com/healytics/healytics-client/internal/core/domain"
)

type fakeAuthAPI struct {
	mu           sync.Mutex
	loginFn      func(ctx context.Context, req domain.LoginRequest) (domain.AuthGrant, error)
	registerFn   func(ctx context.Context, req domain.RegisterRequest) (domain.AuthGrant, error)
	refreshFn    func(ctx context.Context, refreshToken string) (string, error)
	profileFn    func(ctx context.Context) (domain.Identity, error)
	loginCalls   int
	profileCalls int
	refreshCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthGrant, error) {
	f.mu.Lock()
	f.loginCalls++
	fn := f.loginFn
	f.mu.Unlock()
	if fn == nil {
		return domain.AuthGrant{}, nil
	}
	return fn(ctx, req)
}

func (f *fakeAuthAPI) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthGrant, error) {
	if f.registerFn == nil {
		return domain.AuthGrant{}, nil
	}
	return f.registerFn(ctx, req)
}

func (f *fakeAuthAPI) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	f.mu.Lock()
	f.refreshCalls++
	fn := f.refreshFn
	f.mu.Unlock()
	if fn == nil {
		return "", nil
	}
	return fn(ctx, refreshToken)
}

func (f *fakeAuthAPI) Profile(ctx context.Context) (domain.Identity, error) {
	f.mu.Lock()
	f.profileCalls++
	fn := f.profileFn
	f.mu.Unlock()
	if fn == nil {
		return domain.Identity{}, nil
	}
	return fn(ctx)
}

type memoryCredentialStore struct {
	mu      sync.Mutex
	creds   domain.Credentials
	loadErr error
	clears  int
}

func (s *memoryCredentialStore) Load(context.Context) (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.Credentials{}, s.loadErr
	}
	return s.creds, nil
}

func (s *memoryCredentialStore) Save(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *memoryCredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = domain.Credentials{}
	s.clears++
	return nil
}

func (s *memoryCredentialStore) stored() domain.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

type fakePredictionAPI struct {
	mu        sync.Mutex
	analyzeFn func(ctx context.Context, image domain.ImageUpload) (domain.PredictionResult, error)
	calls     int
}

func (f *fakePredictionAPI) Analyze(ctx context.Context, image domain.ImageUpload) (domain.PredictionResult, error) {
	f.mu.Lock()
	f.calls++
	fn := f.analyzeFn
	f.mu.Unlock()
	if fn == nil {
		return domain.PredictionResult{}, nil
	}
	return fn(ctx, image)
}

func (f *fakePredictionAPI) History(context.Context) (domain.Collection[domain.PredictionRecord], error) {
	return domain.Collection[domain.PredictionRecord]{Items: []domain.PredictionRecord{}, Source: domain.SourceArray}, nil
}

type fakeChatAPI struct {
	mu     sync.Mutex
	sendFn func(ctx context.Context, message string) (string, error)
	calls  int
}

func (f *fakeChatAPI) Send(ctx context.Context, message string) (string, error) {
	f.mu.Lock()
	f.calls++
	fn := f.sendFn
	f.mu.Unlock()
	if fn == nil {
		return "", nil
	}
	return fn(ctx, message)
}

type fakeStatsAPI struct {
	mu      sync.Mutex
	statsFn func(ctx context.Context) (domain.DashboardStats, error)
	calls   int
}

func (f *fakeStatsAPI) Stats(ctx context.Context) (domain.DashboardStats, error) {
	f.mu.Lock()
	f.calls++
	fn := f.statsFn
	f.mu.Unlock()
	if fn == nil {
		return domain.DashboardStats{}, nil
	}
	return fn(ctx)
}

type fakeBlogAPI struct {
	mu       sync.Mutex
	getFn    func(ctx context.Context, id int) (domain.Blog, error)
	createFn func(ctx context.Context, draft domain.BlogDraft) (domain.Blog, error)
	getCalls int
	creates  int
}

func (f *fakeBlogAPI) List(context.Context) (domain.Collection[domain.Blog], error) {
	return domain.Collection[domain.Blog]{Items: []domain.Blog{}, Source: domain.SourceArray}, nil
}

func (f *fakeBlogAPI) Get(ctx context.Context, id int) (domain.Blog, error) {
	f.mu.Lock()
	f.getCalls++
	fn := f.getFn
	f.mu.Unlock()
	if fn == nil {
		return domain.Blog{ID: id}, nil
	}
	return fn(ctx, id)
}

func (f *fakeBlogAPI) Create(ctx context.Context, draft domain.BlogDraft) (domain.Blog, error) {
	f.mu.Lock()
	f.creates++
	fn := f.createFn
	f.mu.Unlock()
	if fn == nil {
		return domain.Blog{ID: 1, Title: draft.Title, Content: draft.Content}, nil
	}
	return fn(ctx, draft)
}

func (f *fakeBlogAPI) Bookmark(context.Context, int) (string, error) {
	return "bookmarked", nil
}

func (f *fakeBlogAPI) RemoveBookmark(context.Context, int) (string, error) {
	return "removed", nil
}

func (f *fakeBlogAPI) Bookmarks(context.Context) (domain.Collection[domain.Bookmark], error) {
	return domain.Collection[domain.Bookmark]{Items: []domain.Bookmark{}, Source: domain.SourceArray}, nil
}

type fakeContactAPI struct {
	sendFn func(ctx context.Context, msg domain.ContactMessage) (string, error)
	calls  int
}

func (f *fakeContactAPI) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	f.calls++
	if f.sendFn == nil {
		return "thanks", nil
	}
	return f.sendFn(ctx, msg)
}

package backend

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/healytics/healytics-client/internal/core/domain"
)

// AuthService drives the authentication endpoints.
type AuthService struct {
	client *Client
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthGrant, error) {
	var grant domain.AuthGrant
	if err := s.client.postJSON(ctx, "/api/auth/login/", req, &grant, "login"); err != nil {
		return domain.AuthGrant{}, err
	}
	return grant, nil
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthGrant, error) {
	var grant domain.AuthGrant
	if err := s.client.postJSON(ctx, "/api/auth/register/", req, &grant, "register"); err != nil {
		return domain.AuthGrant{}, err
	}
	return grant, nil
}

func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	payload := map[string]string{"refresh": refreshToken}
	var response struct {
		Access string `json:"access"`
	}
	if err := s.client.postJSON(ctx, "/api/token/refresh/", payload, &response, "refresh access"); err != nil {
		return "", err
	}
	if response.Access == "" {
		return "", domain.WrapError(domain.ErrHTTP, "refresh access", fmt.Errorf("empty access token in response"))
	}
	return response.Access, nil
}

func (s *AuthService) Profile(ctx context.Context) (domain.Identity, error) {
	// The profile endpoint nests the account under "user"; older
	// deployments return the fields at the top level.
	var profile struct {
		User      domain.Identity `json:"user"`
		Username  string          `json:"username"`
		FirstName string          `json:"first_name"`
		Email     string          `json:"email"`
	}
	if err := s.client.getJSON(ctx, "/api/profile/", &profile, "profile"); err != nil {
		return domain.Identity{}, err
	}
	if profile.User.Username != "" {
		return profile.User, nil
	}
	return domain.Identity{Username: profile.Username, FirstName: profile.FirstName, Email: profile.Email}, nil
}

// PredictionService submits images for analysis and reads history.
type PredictionService struct {
	client *Client
}

func NewPredictionService(client *Client) *PredictionService {
	return &PredictionService{client: client}
}

func (s *PredictionService) Analyze(ctx context.Context, image domain.ImageUpload) (domain.PredictionResult, error) {
	var result domain.PredictionResult
	err := s.client.postMultipart(ctx, "/api/predictions/", func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(image.Content); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
		return nil
	}, &result, "analyze image")
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return result, nil
}

func (s *PredictionService) History(ctx context.Context) (domain.Collection[domain.PredictionRecord], error) {
	return fetchCollection[domain.PredictionRecord](ctx, s.client, "/api/predictions/list/", "prediction history")
}

// BlogService reads and authors articles.
type BlogService struct {
	client *Client
}

func NewBlogService(client *Client) *BlogService {
	return &BlogService{client: client}
}

func (s *BlogService) List(ctx context.Context) (domain.Collection[domain.Blog], error) {
	return fetchCollection[domain.Blog](ctx, s.client, "/api/blogs/", "list blogs")
}

func (s *BlogService) Get(ctx context.Context, id int) (domain.Blog, error) {
	var blog domain.Blog
	if err := s.client.getJSON(ctx, "/api/blogs/"+strconv.Itoa(id)+"/", &blog, "get blog"); err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, draft domain.BlogDraft) (domain.Blog, error) {
	var blog domain.Blog
	err := s.client.postMultipart(ctx, "/api/blogs/create/", func(w *multipart.Writer) error {
		if err := w.WriteField("title", draft.Title); err != nil {
			return err
		}
		if err := w.WriteField("content", draft.Content); err != nil {
			return err
		}
		if err := w.WriteField("tags", draft.Tags); err != nil {
			return err
		}
		if draft.Image == nil {
			return nil
		}
		part, err := w.CreateFormFile("image", draft.Image.Filename)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(draft.Image.Content); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
		return nil
	}, &blog, "create blog")
	if err != nil {
		return domain.Blog{}, err
	}
	return blog, nil
}

func (s *BlogService) Bookmark(ctx context.Context, id int) (string, error) {
	var response struct {
		Message string `json:"message"`
	}
	path := "/api/blogs/" + strconv.Itoa(id) + "/bookmark/"
	if err := s.client.postJSON(ctx, path, struct{}{}, &response, "bookmark blog"); err != nil {
		return "", err
	}
	return response.Message, nil
}

func (s *BlogService) RemoveBookmark(ctx context.Context, id int) (string, error) {
	var response struct {
		Message string `json:"message"`
	}
	path := "/api/blogs/" + strconv.Itoa(id) + "/bookmark/"
	if err := s.client.delete(ctx, path, &response, "remove bookmark"); err != nil {
		return "", err
	}
	return response.Message, nil
}

func (s *BlogService) Bookmarks(ctx context.Context) (domain.Collection[domain.Bookmark], error) {
	return fetchCollection[domain.Bookmark](ctx, s.client, "/api/bookmarks/", "list bookmarks")
}

// ChatService performs one assistant turn per call.
type ChatService struct {
	client *Client
}

func NewChatService(client *Client) *ChatService {
	return &ChatService{client: client}
}

func (s *ChatService) Send(ctx context.Context, message string) (string, error) {
	payload := map[string]string{"message": message}
	var response struct {
		Reply string `json:"reply"`
	}
	if err := s.client.postJSON(ctx, "/api/chat/", payload, &response, "chat turn"); err != nil {
		return "", err
	}
	return response.Reply, nil
}

// StatsService fetches the dashboard summary.
type StatsService struct {
	client *Client
}

func NewStatsService(client *Client) *StatsService {
	return &StatsService{client: client}
}

func (s *StatsService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := s.client.getJSON(ctx, "/api/stats/", &stats, "stats"); err != nil {
		return domain.DashboardStats{}, err
	}
	return stats, nil
}

// ContactService submits the contact form.
type ContactService struct {
	client *Client
}

func NewContactService(client *Client) *ContactService {
	return &ContactService{client: client}
}

func (s *ContactService) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	var response struct {
		Message string `json:"message"`
	}
	if err := s.client.postJSON(ctx, "/api/contact/", msg, &response, "contact"); err != nil {
		return "", err
	}
	return response.Message, nil
}

// HealthService probes backend liveness.
type HealthService struct {
	client *Client
}

func NewHealthService(client *Client) *HealthService {
	return &HealthService{client: client}
}

func (s *HealthService) Check(ctx context.Context) (string, error) {
	var response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := s.client.getJSON(ctx, "/api/health/", &response, "health"); err != nil {
		return "", err
	}
	return response.Status, nil
}

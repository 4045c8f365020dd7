package domain

type SessionStatus string

const (
	StatusUnknown        SessionStatus = "unknown"
	StatusAuthenticating SessionStatus = "authenticating"
	StatusAuthenticated  SessionStatus = "authenticated"
	StatusAnonymous      SessionStatus = "anonymous"
)

type Identity struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (i Identity) DisplayName() string {
	if i.FirstName != "" {
		return i.FirstName
	}
	return i.Username
}

// Session is the process-wide record of whether a user is signed in.
// Identity is present if and only if Status is StatusAuthenticated.
type Session struct {
	Token    string
	Identity *Identity
	Status   SessionStatus
}

func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Resolved reports whether startup restoration has finished.
func (s Session) Resolved() bool {
	return s.Status == StatusAuthenticated || s.Status == StatusAnonymous
}

// Credentials is the durable pair persisted across process restarts.
// An all-empty value is a valid state and means anonymous.
type Credentials struct {
	Access  string
	Refresh string
}

func (c Credentials) Empty() bool {
	return c.Access == "" && c.Refresh == ""
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthGrant is what the backend issues on a successful login, registration
// or token refresh.
type AuthGrant struct {
	User    Identity `json:"user"`
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
}

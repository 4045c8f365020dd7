package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/healytics/healytics-client/internal/core/domain"
)

const credentialsFile = "credentials.json"

// Store keeps the bearer credentials in a single file so a restarted
// process can restore its session. Absent file means anonymous.
type Store struct {
	basePath string
}

func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = "./.healytics"
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("create credentials dir: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

type credentialsRecord struct {
	Access  string `json:"healytics.access,omitempty"`
	Refresh string `json:"healytics.refresh,omitempty"`
}

func (s *Store) Load(_ context.Context) (domain.Credentials, error) {
	raw, err := os.ReadFile(filepath.Join(s.basePath, credentialsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credentials{}, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}

	var record credentialsRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// A corrupted slot degrades to anonymous rather than wedging startup.
		return domain.Credentials{}, nil
	}
	return domain.Credentials{Access: record.Access, Refresh: record.Refresh}, nil
}

func (s *Store) Save(_ context.Context, creds domain.Credentials) error {
	raw, err := json.Marshal(credentialsRecord{Access: creds.Access, Refresh: creds.Refresh})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	path := filepath.Join(s.basePath, credentialsFile)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	err := os.Remove(filepath.Join(s.basePath, credentialsFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrInvalidEmail = errors.New("invalid email address")

// userNamespace scopes the name-based user ids.
var userNamespace = uuid.MustParse("6f1c2a9e-3b57-4d0a-9a63-1f0e5b8c7d21")

type User struct {
	ID         string    `yaml:"id" json:"id"`
	Email      string    `yaml:"email" json:"email"`
	SignedInAt time.Time `yaml:"signed_in_at" json:"signedInAt"`
}

// Provider signs users in and out. Current returns nil when nobody is
// signed in.
type Provider interface {
	SignIn(ctx context.Context, email string) (User, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*User, error)
}

// UserID derives a stable id from an email address.
func UserID(email string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

// NormalizeEmail validates and lower-cases an address.
func NormalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return strings.ToLower(addr.Address), nil
}

// LocalProvider keeps the signed-in user in a YAML file.
type LocalProvider struct {
	path string
	now  func() time.Time
}

func NewLocalProvider(path string) *LocalProvider {
	return &LocalProvider{path: path, now: time.Now}
}

func (p *LocalProvider) SignIn(_ context.Context, email string) (User, error) {
	addr, err := NormalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	u := User{ID: UserID(addr), Email: addr, SignedInAt: p.now().UTC()}

	data, err := yaml.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return User{}, fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return User{}, fmt.Errorf("write session: %w", err)
	}
	return u, nil
}

// SignOut removes the session file. Signing out twice is not an error.
func (p *LocalProvider) SignOut(_ context.Context) error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (p *LocalProvider) Current(_ context.Context) (*User, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var u User
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

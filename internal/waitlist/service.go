package waitlist

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the waitlist.
// Add must be idempotent per email: created is false when the address already exists.
type Repository interface {
	Add(ctx context.Context, s Subscriber) (created bool, err error)
	Count(ctx context.Context) (int64, error)
}

var ErrInvalidEmail = errors.New("waitlist: invalid email")

// Service records launch notification signups.
// The waitlist sits behind /api and is not gated by the site password.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Subscribe normalises email and stores it once. Repeated signups are not an error.
func (s *Service) Subscribe(ctx context.Context, email string) (Subscriber, bool, error) {
	if s.repo == nil {
		return Subscriber{}, false, errors.New("waitlist: repository not configured")
	}
	addr, err := NormalizeEmail(email)
	if err != nil {
		return Subscriber{}, false, err
	}

	sub := Subscriber{
		ID:        uuid.NewString(),
		Email:     addr,
		CreatedAt: s.clock().UTC(),
	}
	created, err := s.repo.Add(ctx, sub)
	if err != nil {
		return Subscriber{}, false, err
	}
	return sub, created, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, errors.New("waitlist: repository not configured")
	}
	return s.repo.Count(ctx)
}

// NormalizeEmail trims and lower-cases a bare address. Display names are rejected.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	a, err := mail.ParseAddress(email)
	if err != nil || a.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

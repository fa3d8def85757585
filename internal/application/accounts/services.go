package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bryanwahyu/legalynx/internal/application"
	domain "github.com/bryanwahyu/legalynx/internal/domain/user"
)

// Service menangani user yang login lewat identity provider
type Service struct {
	Repo    domain.Repository
	Billing domain.Billing // optional
	Clock   application.Clock
	Logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock serializes EnsureUser per user id inside this process
type userLock struct {
	sync.Mutex
	refs int
}

func (s *Service) lock(id string) func() {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*userLock)
	}
	l, ok := s.locks[id]
	if !ok {
		l = &userLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// EnsureUser returns the stored user for id, creating the row and the
// billing customer the first time the user is seen. A billing failure is
// logged and retried on the next call. Concurrent calls for one user are
// serialized here; across processes the billing idempotency key applies.
func (s *Service) EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if strings.TrimSpace(id.ID) == "" {
		return nil, fmt.Errorf("identity without id")
	}
	defer s.lock(id.ID)()

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	u, err := s.Repo.Get(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	dirty := false
	if u == nil {
		clock := s.Clock
		if clock == nil {
			clock = application.SystemClock{}
		}
		u = &domain.User{ID: id.ID, Email: id.Email, Name: id.Name, CreatedAt: clock.Now()}
		dirty = true
	}

	if s.Billing != nil && u.StripeCustomerID == "" {
		name := u.Name
		if name == "" {
			name = u.Email
		}
		cid, err := s.Billing.CreateCustomer(ctx, u.ID, u.Email, name)
		if err != nil {
			logger.Warn("create billing customer", slog.String("user_id", u.ID), slog.Any("err", err))
		} else {
			u.StripeCustomerID = cid
			dirty = true
		}
	}

	if dirty {
		if err := s.Repo.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
	}
	return u, nil
}

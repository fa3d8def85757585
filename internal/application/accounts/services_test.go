package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bryanwahyu/legalynx/internal/application"
	domain "github.com/bryanwahyu/legalynx/internal/domain/user"
)

type memUsers struct {
	mu    sync.Mutex
	rows  map[string]*domain.User
	saves int
}

func (m *memUsers) Get(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Save(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

type fakeBilling struct {
	mu     sync.Mutex
	calls  int
	lastID string
	err    error
}

func (f *fakeBilling) CreateCustomer(_ context.Context, userID, email, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastID = userID
	if f.err != nil {
		return "", f.err
	}
	return "cus_" + name, nil
}

func TestEnsureUserCreatesOnce(t *testing.T) {
	repo := &memUsers{rows: map[string]*domain.User{}}
	billing := &fakeBilling{}
	svc := &Service{Repo: repo, Billing: billing, Clock: application.FixedClock{T: time.Unix(100, 0)}}
	id := domain.Identity{ID: "kp_1", Email: "ana@example.com", Name: "Ana"}

	u, err := svc.EnsureUser(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if u.StripeCustomerID != "cus_Ana" || !u.CreatedAt.Equal(time.Unix(100, 0)) {
		t.Fatalf("user = %+v", u)
	}

	if _, err := svc.EnsureUser(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if billing.calls != 1 || repo.saves != 1 {
		t.Fatalf("billing calls %d saves %d, want 1 and 1", billing.calls, repo.saves)
	}
	if billing.lastID != "kp_1" {
		t.Fatalf("billing user id = %q", billing.lastID)
	}
}

func TestEnsureUserConcurrentFirstLogin(t *testing.T) {
	repo := &memUsers{rows: map[string]*domain.User{}}
	billing := &fakeBilling{}
	svc := &Service{Repo: repo, Billing: billing}
	id := domain.Identity{ID: "kp_3", Email: "cy@example.com", Name: "Cy"}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.EnsureUser(context.Background(), id); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if billing.calls != 1 {
		t.Fatalf("billing calls = %d, want 1", billing.calls)
	}
	if repo.rows["kp_3"].StripeCustomerID != "cus_Cy" {
		t.Fatalf("stored customer = %q", repo.rows["kp_3"].StripeCustomerID)
	}
	if len(svc.locks) != 0 {
		t.Fatalf("locks not released: %d", len(svc.locks))
	}
}

func TestEnsureUserRetriesBilling(t *testing.T) {
	repo := &memUsers{rows: map[string]*domain.User{}}
	billing := &fakeBilling{err: errors.New("stripe down")}
	svc := &Service{Repo: repo, Billing: billing}
	id := domain.Identity{ID: "kp_2", Email: "bo@example.com"}

	u, err := svc.EnsureUser(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if u.StripeCustomerID != "" {
		t.Fatal("no customer expected while billing fails")
	}

	billing.err = nil
	u, err = svc.EnsureUser(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if u.StripeCustomerID != "cus_bo@example.com" {
		t.Fatalf("customer = %q", u.StripeCustomerID)
	}
	if repo.rows["kp_2"].StripeCustomerID == "" {
		t.Fatal("customer id not persisted")
	}
}

func TestEnsureUserRequiresID(t *testing.T) {
	svc := &Service{Repo: &memUsers{rows: map[string]*domain.User{}}}
	if _, err := svc.EnsureUser(context.Background(), domain.Identity{}); err == nil {
		t.Fatal("expected error")
	}
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bryanwahyu/legalynx/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get returns (nil, nil) when the user has not been seen yet
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	const q = `
SELECT id, email, name, stripe_customer_id, created_at
FROM users
WHERE id=? LIMIT 1;
`
	var u user.User
	var customer sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.Name, &customer, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.StripeCustomerID = customer.String
	return &u, nil
}

// Save inserts or updates a user
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	const q = `
INSERT INTO users (id, email, name, stripe_customer_id, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  email=VALUES(email), name=VALUES(name), stripe_customer_id=VALUES(stripe_customer_id);
`
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	customer := sql.NullString{String: u.StripeCustomerID, Valid: u.StripeCustomerID != ""}
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Name, customer, createdAt)
	return err
}

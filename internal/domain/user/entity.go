package user

import "time"

// User represents an authenticated account as supplied by the identity provider
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	StripeCustomerID string    `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Identity is what the auth proxy tells us about the caller.
type Identity struct {
	ID    string
	Email string
	Name  string
}

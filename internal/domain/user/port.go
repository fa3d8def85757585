package user

import "context"

// Repository port for persisting users
type Repository interface {
	Get(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, u *User) error
}

// Billing port, provisions a customer record at the payments provider.
// Repeated calls for the same userID must not create a second customer.
type Billing interface {
	CreateCustomer(ctx context.Context, userID, email, name string) (string, error)
}

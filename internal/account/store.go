package account

import "context"

// SortKey selects the column a listing is ordered by.
type SortKey string

const (
	SortCreatedAt SortKey = "created_at"
	SortEmail     SortKey = "email"
	SortFirstName SortKey = "first_name"
	SortLastName  SortKey = "last_name"
)

// ListOptions controls pagination and ordering. A zero value lists every
// account in insertion order.
type ListOptions struct {
	Limit  int
	Offset int
	Sort   SortKey
	Desc   bool
}

// Store describes persistence operations required by the directory.
// Implementations must enforce email uniqueness themselves: the directory's
// existence check is only a pre-flight guard, and a Create or Update racing
// another writer must fail with ErrEmailTaken.
type Store interface {
	Create(ctx context.Context, acc *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]*Account, int, error)
	Update(ctx context.Context, acc *Account) error
	Delete(ctx context.Context, id string) error
}

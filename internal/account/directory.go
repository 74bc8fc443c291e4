package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accountd.org/internal/auth"
)

// phantomDigest is compared against when a login names an unknown email, so
// the miss costs the same as a real verification and existence does not leak
// through timing.
const phantomDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Directory orchestrates account lifecycle operations against a Store.
type Directory struct {
	store    Store
	hashCost int
	now      func() time.Time
}

// DirectoryOption configures Directory behavior.
type DirectoryOption func(*Directory)

// WithHashCost overrides the bcrypt cost used for credential digests.
func WithHashCost(cost int) DirectoryOption {
	return func(d *Directory) {
		if cost > 0 {
			d.hashCost = cost
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) DirectoryOption {
	return func(d *Directory) {
		if fn != nil {
			d.now = fn
		}
	}
}

// NewDirectory constructs a Directory over the given store.
func NewDirectory(store Store, opts ...DirectoryOption) (*Directory, error) {
	if store == nil {
		return nil, errors.New("account store is required")
	}
	d := &Directory{store: store, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// CreateInput carries the fields for registering a new account.
type CreateInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UpdateInput carries the fields for a full update. Password may be empty,
// in which case the stored credential digest is kept.
type UpdateInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Create registers a new account. The email must not be in use; the store's
// uniqueness constraint is the authoritative check, the lookup here only
// gives a friendlier failure for the common case.
func (d *Directory) Create(ctx context.Context, in CreateInput) (*Account, error) {
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(in.FirstName)
	if err := validateName("first_name", firstName); err != nil {
		return nil, err
	}
	lastName := strings.TrimSpace(in.LastName)
	if err := validateName("last_name", lastName); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	taken, err := d.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	digest, err := auth.HashPassword(in.Password, d.hashCost)
	if err != nil {
		return nil, err
	}

	now := d.now().UTC()
	acc := &Account{
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		PasswordDigest: digest,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := d.store.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// FindByID returns the account with the given id.
func (d *Directory) FindByID(ctx context.Context, id string) (*Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	return d.store.FindByID(ctx, id)
}

// FindByEmail returns the account with the given email.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return d.store.FindByEmail(ctx, email)
}

// List returns accounts plus the total count. Ordering is insertion order
// unless a sort key is requested.
func (d *Directory) List(ctx context.Context, opts ListOptions) ([]*Account, int, error) {
	switch opts.Sort {
	case "", SortCreatedAt, SortEmail, SortFirstName, SortLastName:
	default:
		return nil, 0, fmt.Errorf("%w: unsupported sort key %q", ErrInvalidInput, opts.Sort)
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	return d.store.List(ctx, opts)
}

// FullUpdate replaces every mutable field of the account. A changed email
// colliding with another account fails with ErrEmailTaken.
func (d *Directory) FullUpdate(ctx context.Context, id string, in UpdateInput) (*Account, error) {
	acc, err := d.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(in.FirstName)
	if err := validateName("first_name", firstName); err != nil {
		return nil, err
	}
	lastName := strings.TrimSpace(in.LastName)
	if err := validateName("last_name", lastName); err != nil {
		return nil, err
	}
	if email != acc.Email {
		taken, err := d.store.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
	}

	updated := *acc
	updated.Email = email
	updated.FirstName = firstName
	updated.LastName = lastName
	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		digest, err := auth.HashPassword(in.Password, d.hashCost)
		if err != nil {
			return nil, err
		}
		updated.PasswordDigest = digest
	}
	updated.UpdatedAt = d.now().UTC()

	if err := d.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PartialUpdate applies a tri-state patch: absent fields stay untouched,
// supplied fields replace the stored value, and an explicit null is
// rejected. The merge is all-or-nothing.
func (d *Directory) PartialUpdate(ctx context.Context, id string, patch Patch) (*Account, error) {
	acc, err := d.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email, ok := patch.Email.Value(); ok {
		email = strings.TrimSpace(email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != acc.Email {
			taken, err := d.store.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
			}
		}
	}

	updated := *acc
	if err := patch.merge(&updated, func(password string) (string, error) {
		return auth.HashPassword(password, d.hashCost)
	}); err != nil {
		return nil, err
	}
	updated.UpdatedAt = d.now().UTC()

	if err := d.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the account with the given id.
func (d *Directory) Delete(ctx context.Context, id string) error {
	acc, err := d.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return d.store.Delete(ctx, acc.ID)
}

// Authenticate verifies a login attempt. Unknown email and wrong password
// produce the same ErrInvalidCredentials so account existence does not leak.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	acc, err := d.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = auth.VerifyPassword(phantomDigest, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(acc.PasswordDigest, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

package account

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"accountd.org/internal/auth"
)

// testHashCost keeps bcrypt cheap in tests.
const testHashCost = 4

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	dir, err := NewDirectory(NewMemoryStore(), WithHashCost(testHashCost))
	require.NoError(t, err)
	return dir
}

func mustCreate(t *testing.T, dir *Directory, email string) *Account {
	t.Helper()
	acc, err := dir.Create(context.Background(), CreateInput{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	return acc
}

func TestCreateAccount(t *testing.T) {
	dir := newTestDirectory(t)

	acc, err := dir.Create(context.Background(), CreateInput{
		Email:     "  ada@example.com ",
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Password:  "analytical",
	})
	require.NoError(t, err)
	require.NotEmpty(t, acc.ID)
	require.Equal(t, "ada@example.com", acc.Email, "email must be trimmed")
	require.Equal(t, "Ada", acc.FirstName)
	require.False(t, acc.CreatedAt.IsZero())
	require.Equal(t, acc.CreatedAt, acc.UpdatedAt)

	require.NotEqual(t, "analytical", acc.PasswordDigest)
	require.NoError(t, auth.VerifyPassword(acc.PasswordDigest, "analytical"))
}

func TestCreateAccountValidation(t *testing.T) {
	dir := newTestDirectory(t)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing email", CreateInput{FirstName: "Ada", LastName: "Lovelace", Password: "pw3"}},
		{"malformed email", CreateInput{Email: "not-an-email", FirstName: "Ada", LastName: "Lovelace", Password: "pw3"}},
		{"short first name", CreateInput{Email: "a@b.co", FirstName: "A", LastName: "Lovelace", Password: "pw3"}},
		{"long last name", CreateInput{Email: "a@b.co", FirstName: "Ada", LastName: strings.Repeat("x", 101), Password: "pw3"}},
		{"short password", CreateInput{Email: "a@b.co", FirstName: "Ada", LastName: "Lovelace", Password: "pw"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dir.Create(context.Background(), tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	dir := newTestDirectory(t)
	mustCreate(t, dir, "dup@example.com")

	_, err := dir.Create(context.Background(), CreateInput{
		Email:     "dup@example.com",
		FirstName: "Other",
		LastName:  "Person",
		Password:  "pw123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	dir := newTestDirectory(t)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = dir.Create(context.Background(), CreateInput{
				Email:     "race@example.com",
				FirstName: "Race",
				LastName:  "Runner",
				Password:  "pw123",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		require.ErrorIs(t, err, ErrEmailTaken)
	}
	require.Equal(t, 1, winners, "exactly one concurrent create may win")
}

func TestAccountJSONExcludesDigest(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "safe@example.com")

	data, err := json.Marshal(acc)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	require.NotContains(t, string(data), acc.PasswordDigest)
	for key := range fields {
		require.NotContains(t, strings.ToLower(key), "password")
	}
}

func TestFindByID(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "find@example.com")

	got, err := dir.FindByID(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)

	_, err = dir.FindByID(context.Background(), "01ZZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = dir.FindByID(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListDefaultsToInsertionOrder(t *testing.T) {
	dir := newTestDirectory(t)
	first := mustCreate(t, dir, "c@example.com")
	second := mustCreate(t, dir, "a@example.com")
	third := mustCreate(t, dir, "b@example.com")

	items, total, err := dir.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, []string{first.ID, second.ID, third.ID},
		[]string{items[0].ID, items[1].ID, items[2].ID})
}

func TestListSortAndPagination(t *testing.T) {
	dir := newTestDirectory(t)
	mustCreate(t, dir, "c@example.com")
	mustCreate(t, dir, "a@example.com")
	mustCreate(t, dir, "b@example.com")

	items, total, err := dir.List(context.Background(), ListOptions{Sort: SortEmail})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, "a@example.com", items[0].Email)
	require.Equal(t, "c@example.com", items[2].Email)

	items, total, err = dir.List(context.Background(), ListOptions{Sort: SortEmail, Desc: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, 3, total, "total must count all accounts, not the page")
	require.Len(t, items, 1)
	require.Equal(t, "b@example.com", items[0].Email)

	items, _, err = dir.List(context.Background(), ListOptions{Offset: 10})
	require.NoError(t, err)
	require.Empty(t, items)

	_, _, err = dir.List(context.Background(), ListOptions{Sort: "password_digest"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFullUpdate(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "before@example.com")

	updated, err := dir.FullUpdate(context.Background(), acc.ID, UpdateInput{
		Email:     "after@example.com",
		FirstName: "New",
		LastName:  "Name",
	})
	require.NoError(t, err)
	require.Equal(t, "after@example.com", updated.Email)
	require.Equal(t, "New", updated.FirstName)
	require.Equal(t, acc.PasswordDigest, updated.PasswordDigest, "empty password keeps the digest")
	require.False(t, updated.UpdatedAt.Before(acc.UpdatedAt))
	require.Equal(t, acc.CreatedAt, updated.CreatedAt)

	// Password replacement rehashes.
	updated, err = dir.FullUpdate(context.Background(), acc.ID, UpdateInput{
		Email:     "after@example.com",
		FirstName: "New",
		LastName:  "Name",
		Password:  "fresh-pw",
	})
	require.NoError(t, err)
	require.NoError(t, auth.VerifyPassword(updated.PasswordDigest, "fresh-pw"))
}

func TestFullUpdateEmailCollision(t *testing.T) {
	dir := newTestDirectory(t)
	mustCreate(t, dir, "taken@example.com")
	acc := mustCreate(t, dir, "mine@example.com")

	_, err := dir.FullUpdate(context.Background(), acc.ID, UpdateInput{
		Email:     "taken@example.com",
		FirstName: "Some",
		LastName:  "Body",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Keeping one's own email is not a collision.
	_, err = dir.FullUpdate(context.Background(), acc.ID, UpdateInput{
		Email:     "mine@example.com",
		FirstName: "Some",
		LastName:  "Body",
	})
	require.NoError(t, err)
}

func TestPartialUpdate(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "patch@example.com")

	updated, err := dir.PartialUpdate(context.Background(), acc.ID, Patch{
		FirstName: Some("Changed"),
	})
	require.NoError(t, err)
	require.Equal(t, "Changed", updated.FirstName)
	require.Equal(t, acc.LastName, updated.LastName, "untouched field must survive")
	require.Equal(t, acc.Email, updated.Email)
	require.Equal(t, acc.PasswordDigest, updated.PasswordDigest)
	require.False(t, updated.UpdatedAt.Before(acc.UpdatedAt))
}

func TestPartialUpdateRejectsNull(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "null@example.com")

	_, err := dir.PartialUpdate(context.Background(), acc.ID, Patch{
		FirstName: Some("Changed"),
		LastName:  Null[string](),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// All-or-nothing: the valid field must not have been applied.
	got, err := dir.FindByID(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Equal(t, acc.FirstName, got.FirstName)
	require.Equal(t, acc.UpdatedAt, got.UpdatedAt)
}

func TestPartialUpdateInvalidFieldLeavesAccountUntouched(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "atomic@example.com")

	_, err := dir.PartialUpdate(context.Background(), acc.ID, Patch{
		FirstName: Some("Valid"),
		Email:     Some("broken"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	got, err := dir.FindByID(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Equal(t, acc.FirstName, got.FirstName)
	require.Equal(t, acc.Email, got.Email)
}

func TestPartialUpdateEmailCollision(t *testing.T) {
	dir := newTestDirectory(t)
	mustCreate(t, dir, "busy@example.com")
	acc := mustCreate(t, dir, "free@example.com")

	_, err := dir.PartialUpdate(context.Background(), acc.ID, Patch{
		Email: Some("busy@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestPartialUpdatePassword(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "rehash@example.com")

	updated, err := dir.PartialUpdate(context.Background(), acc.ID, Patch{
		Password: Some("brand-new"),
	})
	require.NoError(t, err)
	require.NotEqual(t, acc.PasswordDigest, updated.PasswordDigest)
	require.NoError(t, auth.VerifyPassword(updated.PasswordDigest, "brand-new"))
}

func TestDelete(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "gone@example.com")

	require.NoError(t, dir.Delete(context.Background(), acc.ID))

	_, err := dir.FindByID(context.Background(), acc.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, dir.Delete(context.Background(), acc.ID), ErrNotFound)

	// The email is reusable after deletion.
	mustCreate(t, dir, "gone@example.com")
}

func TestAuthenticate(t *testing.T) {
	dir := newTestDirectory(t)
	acc := mustCreate(t, dir, "login@example.com")

	got, err := dir.Authenticate(context.Background(), "login@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)

	_, err = dir.Authenticate(context.Background(), "login@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// An unknown email fails with the same error as a wrong password.
	_, err = dir.Authenticate(context.Background(), "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = dir.Authenticate(context.Background(), "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDirectoryClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dir, err := NewDirectory(NewMemoryStore(),
		WithHashCost(testHashCost),
		WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)

	acc := mustCreate(t, dir, "clock@example.com")
	require.Equal(t, fixed, acc.CreatedAt)
	require.Equal(t, fixed, acc.UpdatedAt)
}

func TestNewDirectoryRequiresStore(t *testing.T) {
	_, err := NewDirectory(nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidInput))
}

// Package seed provisions initial accounts before the service takes
// traffic. Running it repeatedly is safe: every account is guarded by an
// existence check per seeded email, and a lost race against another seeder
// is treated as already-seeded.
package seed

import (
	"context"
	"errors"
	"fmt"

	"accountd.org/internal/account"
	"accountd.org/internal/obs"
)

// Options configures the seeding run.
type Options struct {
	AdminEmail    string
	AdminPassword string
	// SampleAccounts controls how many of the bundled sample accounts are
	// created in addition to the admin. Zero seeds only the admin.
	SampleAccounts int
}

// sampleAccounts is a fixed table rather than generated data: determinism
// makes repeated runs idempotent by construction.
var sampleAccounts = []account.CreateInput{
	{Email: "ada.lovelace@example.com", FirstName: "Ada", LastName: "Lovelace", Password: "analytical-engine"},
	{Email: "grace.hopper@example.com", FirstName: "Grace", LastName: "Hopper", Password: "nanoseconds"},
	{Email: "alan.turing@example.com", FirstName: "Alan", LastName: "Turing", Password: "enigma-1936"},
	{Email: "katherine.johnson@example.com", FirstName: "Katherine", LastName: "Johnson", Password: "trajectory"},
	{Email: "margaret.hamilton@example.com", FirstName: "Margaret", LastName: "Hamilton", Password: "apollo-agc"},
	{Email: "edsger.dijkstra@example.com", FirstName: "Edsger", LastName: "Dijkstra", Password: "shortest-path"},
	{Email: "barbara.liskov@example.com", FirstName: "Barbara", LastName: "Liskov", Password: "substitution"},
	{Email: "donald.knuth@example.com", FirstName: "Donald", LastName: "Knuth", Password: "literate-42"},
	{Email: "radia.perlman@example.com", FirstName: "Radia", LastName: "Perlman", Password: "spanning-tree"},
	{Email: "dennis.ritchie@example.com", FirstName: "Dennis", LastName: "Ritchie", Password: "hello-world"},
	{Email: "ken.thompson@example.com", FirstName: "Ken", LastName: "Thompson", Password: "ed-is-enough"},
	{Email: "frances.allen@example.com", FirstName: "Frances", LastName: "Allen", Password: "optimizing"},
	{Email: "john.backus@example.com", FirstName: "John", LastName: "Backus", Password: "formula-trans"},
	{Email: "adele.goldberg@example.com", FirstName: "Adele", LastName: "Goldberg", Password: "smalltalk-80"},
	{Email: "niklaus.wirth@example.com", FirstName: "Niklaus", LastName: "Wirth", Password: "pascal-1970"},
}

// Run seeds the admin account and the requested number of sample accounts.
func Run(ctx context.Context, dir *account.Directory, opts Options) error {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return errors.New("seed: admin email and password are required")
	}

	created, err := ensureAccount(ctx, dir, account.CreateInput{
		Email:     opts.AdminEmail,
		FirstName: "Service",
		LastName:  "Admin",
		Password:  opts.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed admin %s: %w", opts.AdminEmail, err)
	}
	logSeed(opts.AdminEmail, created)

	n := opts.SampleAccounts
	if n > len(sampleAccounts) {
		n = len(sampleAccounts)
	}
	for _, in := range sampleAccounts[:n] {
		created, err := ensureAccount(ctx, dir, in)
		if err != nil {
			return fmt.Errorf("seed %s: %w", in.Email, err)
		}
		logSeed(in.Email, created)
	}
	return nil
}

// ensureAccount creates the account unless its email is already present.
// The reported bool is true when the account was created by this run.
func ensureAccount(ctx context.Context, dir *account.Directory, in account.CreateInput) (bool, error) {
	_, err := dir.FindByEmail(ctx, in.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, account.ErrNotFound) {
		return false, err
	}
	if _, err := dir.Create(ctx, in); err != nil {
		// Another seeder won the race between the check and the write.
		if errors.Is(err, account.ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func logSeed(email string, created bool) {
	state := "exists"
	if created {
		state = "created"
	}
	obs.LogRequest(map[string]any{
		"level": "info",
		"msg":   "seed account",
		"email": email,
		"state": state,
	})
}

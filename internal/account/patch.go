package account

import (
	"fmt"
	"strings"
)

// Patch describes a partial update. Each field distinguishes "not supplied",
// "supplied as null", and "supplied with a value". No account field is
// nullable, so an explicit null is a caller error rather than a no-op.
type Patch struct {
	Email     Optional[string] `json:"email"`
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
	Password  Optional[string] `json:"password"`
}

// Empty reports whether the patch supplies no fields at all.
func (p Patch) Empty() bool {
	return !p.Email.Present() && !p.FirstName.Present() && !p.LastName.Present() && !p.Password.Present()
}

// merge applies the patch to acc. Every supplied field is validated before
// any assignment happens, so a failing field leaves acc untouched. The raw
// password, when supplied, is routed through hash and only the digest is
// assigned.
func (p Patch) merge(acc *Account, hash func(string) (string, error)) error {
	for _, f := range []struct {
		name string
		opt  Optional[string]
	}{
		{"email", p.Email},
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"password", p.Password},
	} {
		if f.opt.IsNull() {
			return fmt.Errorf("%w: field %s cannot be null", ErrInvalidInput, f.name)
		}
	}

	email, hasEmail := p.Email.Value()
	if hasEmail {
		email = strings.TrimSpace(email)
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	firstName, hasFirst := p.FirstName.Value()
	if hasFirst {
		firstName = strings.TrimSpace(firstName)
		if err := validateName("first_name", firstName); err != nil {
			return err
		}
	}
	lastName, hasLast := p.LastName.Value()
	if hasLast {
		lastName = strings.TrimSpace(lastName)
		if err := validateName("last_name", lastName); err != nil {
			return err
		}
	}

	var digest string
	if password, ok := p.Password.Value(); ok {
		if err := validatePassword(password); err != nil {
			return err
		}
		d, err := hash(password)
		if err != nil {
			return err
		}
		digest = d
	}

	if hasEmail {
		acc.Email = email
	}
	if hasFirst {
		acc.FirstName = firstName
	}
	if hasLast {
		acc.LastName = lastName
	}
	if digest != "" {
		acc.PasswordDigest = digest
	}
	return nil
}

const (
	minNameLen     = 2
	maxNameLen     = 100
	minPasswordLen = 3
)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	return nil
}

func validateName(field, value string) error {
	if len(value) < minNameLen || len(value) > maxNameLen {
		return fmt.Errorf("%w: %s must be between %d and %d characters", ErrInvalidInput, field, minNameLen, maxNameLen)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	return nil
}

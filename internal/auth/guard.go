package auth

// Identity is the authenticated caller, derived from verified token claims.
// It is a plain value: the stored account record is never used as a
// security principal.
type Identity struct {
	AccountID string
	Email     string
}

// IdentityFromClaims derives the caller identity from verified claims.
func IdentityFromClaims(claims *Claims) Identity {
	return Identity{AccountID: claims.Subject, Email: claims.Email}
}

// AuthorizeSelf permits an identity to act on an account only when the
// target is its own. This is the sole authorization rule for per-account
// resources.
func AuthorizeSelf(identity Identity, targetAccountID string) error {
	if identity.AccountID == "" || targetAccountID == "" {
		return ErrForbidden
	}
	if identity.AccountID != targetAccountID {
		return ErrForbidden
	}
	return nil
}

package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the token failed verification. The specific
// variants below all match it via errors.Is, so callers that do not care
// about the failure kind can test against ErrInvalidToken alone.
var ErrInvalidToken = errors.New("invalid token")

var (
	ErrTokenMalformed   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrSignatureInvalid = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrTokenExpired     = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// ErrForbidden indicates a verified identity acting on an account it does
// not own.
var ErrForbidden = errors.New("forbidden")

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueVerifyRoundtrip(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	token, expiresAt, err := codec.Issue("acc-123", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(codec.TTL()), expiresAt, 5*time.Second)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acc-123", claims.Subject)
	require.Equal(t, "ada@example.com", claims.Email)
	require.NotEmpty(t, claims.ID, "every token carries a unique id")
}

func TestIssueRequiresAccountID(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	_, _, err = codec.Issue("  ", "x@y.co")
	require.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	issued := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	codec, err := NewCodec(testSecret,
		WithTokenTTL(time.Minute),
		WithTokenClock(func() time.Time { return issued }),
	)
	require.NoError(t, err)

	token, _, err := codec.Issue("acc-123", "x@y.co")
	require.NoError(t, err)

	// Same secret, clock advanced past the expiry.
	late, err := NewCodec(testSecret,
		WithTokenClock(func() time.Time { return issued.Add(2 * time.Minute) }),
	)
	require.NoError(t, err)

	_, err = late.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedSignature(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)
	other, err := NewCodec("a-different-secret")
	require.NoError(t, err)

	token, _, err := codec.Issue("acc-123", "x@y.co")
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrSignatureInvalid)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(tok)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	issuerA, err := NewCodec(testSecret, WithIssuer("service-a"))
	require.NoError(t, err)
	issuerB, err := NewCodec(testSecret, WithIssuer("service-b"))
	require.NoError(t, err)

	token, _, err := issuerA.Issue("acc-123", "x@y.co")
	require.NoError(t, err)

	_, err = issuerB.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec("   ")
	require.Error(t, err)
}

func TestTokenHasThreeSegments(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	token, _, err := codec.Issue("acc-123", "x@y.co")
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)
}

package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest shared secret accepted for HS512.
const MinSecretLength = 32

// HMACKey signs and verifies HS512 tokens with one shared secret.
type HMACKey struct {
	secret []byte
	leeway time.Duration
}

// NewHMACKey returns a signer/verifier for the shared secret.
func NewHMACKey(secret []byte) (*HMACKey, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinSecretLength)
	}

	s := make([]byte, len(secret))
	copy(s, secret)
	return &HMACKey{secret: s}, nil
}

// WithLeeway returns a copy that tolerates clock skew when checking exp/nbf.
func (k *HMACKey) WithLeeway(d time.Duration) *HMACKey {
	return &HMACKey{secret: k.secret, leeway: d}
}

func (k *HMACKey) Alg() string { return jwt.SigningMethodHS512.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (k *HMACKey) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(k.secret)
}

// Verify parses the token, checks the signature and the time claims and
// returns the claims. Failures wrap one of the package sentinel errors so
// callers can tell them apart with errors.Is or Reason.
func (k *HMACKey) Verify(tokenStr string) (Claims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return Claims{}, ErrEmptyToken
	}

	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(k.leeway),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		// Only HS512 is ever issued, anything else (including "none") is refused
		if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("%w: alg %q", ErrUnsupported, t.Method.Alg())
		}
		return k.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if claims.Subject == "" {
		return Claims{}, ErrEmptyClaims
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupported):
		return err
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrEmptyClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownError, err)
	}
}

// Subject checks the signature of an already validated token and returns its
// subject. Time claims are not checked again.
func (k *HMACKey) Subject(tokenStr string) (string, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return "", ErrEmptyToken
	}

	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
	)

	var claims Claims
	if _, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return k.secret, nil
	}); err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", ErrEmptyClaims
	}
	return claims.Subject, nil
}

package jwtx

import (
	"errors"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrEmptyToken   = errors.New("jwtx: empty token")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrUnsupported  = errors.New("jwtx: unsupported token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrEmptyClaims  = errors.New("jwtx: claims are empty")
	ErrWeakSecret   = errors.New("jwtx: signing secret is too short")
	ErrUnknownError = errors.New("jwtx: token rejected")
)

// Reason returns a short, log friendly name for a verification failure.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyToken):
		return "empty_token"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrInvalidSig):
		return "invalid_signature"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, ErrEmptyClaims):
		return "empty_claims"
	default:
		return "unknown"
	}
}

package service

import (
	"errors"

	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
)

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindAuthentication
	KindForbidden
	KindNotFound
	KindAlreadyExists
	KindMail
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindMail:
		return "mail"
	default:
		return "internal"
	}
}

var (
	ErrValidation           = errors.New("validation failed")
	ErrUserExists           = errors.New("user already exists")
	ErrBadCredentials       = errors.New("bad credentials")
	ErrUserDisabled         = errors.New("user is disabled")
	ErrRoleNotFound         = errors.New("role not found")
	ErrTokenNotFound        = errors.New("verification token not found")
	ErrSettingNotFound      = errors.New("setting not found")
	ErrInvalidSetting       = errors.New("invalid setting")
	ErrProviderNotSupported = errors.New("oauth2 provider not supported")
	ErrEmailNotProvided     = errors.New("oauth2 provider returned no email")
	ErrAccountDeleted       = errors.New("account was deleted")
	ErrExchangeFailed       = errors.New("oauth2 code exchange failed")
	ErrMailFailed           = errors.New("mail delivery failed")
)

// Error is a classified failure. Message is localized for the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Fields lists rejected fields for KindValidation.
	Fields []usersdk.FieldError
}

func newError(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, KindInternal when it is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

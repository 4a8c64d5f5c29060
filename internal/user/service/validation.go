package service

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 16
)

// The address must end in a dotted domain with an alphabetic TLD of two or more letters.
var emailPattern = regexp.MustCompile(
	`^[_A-Za-z0-9+-]+(\.[_A-Za-z0-9-]+)*@[A-Za-z0-9-]+(\.[A-Za-z0-9]+)*(\.[A-Za-z]{2,})$`,
)

// RegisterInput is a registration request.
type RegisterInput struct {
	Name             string `json:"name" validate:"notblank"`
	Email            string `json:"email" validate:"notblank,email,mailbox"`
	Password         string `json:"password" validate:"required,password"`
	MatchingPassword string `json:"matchingPassword" validate:"eqfield=Password"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("notblank", validators.NotBlank))
	must(v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	}))
	must(v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	}))
	return v
}

// ValidEmail reports whether email has an acceptable shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword checks length, character classes and the absence of whitespace.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// ValidateRegister returns the rejected fields of in, in field order.
func ValidateRegister(ctx context.Context, in RegisterInput) []usersdk.FieldError {
	err := validate.StructCtx(ctx, in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []usersdk.FieldError{{Field: "registerDto", DefaultMessage: i18nx.T(ctx, "errors.internal")}}
	}

	fields := make([]usersdk.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, usersdk.FieldError{
			Field:          fe.Field(),
			DefaultMessage: i18nx.T(ctx, fieldMessageKey(fe)),
		})
	}
	return fields
}

// fieldMessageKey maps a failed rule to its catalog key.
func fieldMessageKey(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		if fe.Field() == "name" {
			return "errors.invalid.empty.username"
		}
		return "errors.invalid.empty." + fe.Field()
	case "email", "mailbox":
		return "errors.invalid.email"
	case "password":
		return "errors.invalid.password"
	case "eqfield":
		// object level rule, reported on the confirmation field
		return "errors.invalid.matchingPassword"
	default:
		return "errors.invalid." + fe.Field()
	}
}

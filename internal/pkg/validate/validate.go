package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

const (
	minTwoFACode = 100000
	maxTwoFACode = 999999
)

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Email checks that s is a syntactically valid address with a single "@".
func Email(s string) error {
	if strings.Count(s, "@") != 1 {
		return fmt.Errorf("email must contain a single '@'")
	}
	return field(s, "email", "required,email")
}

// Password checks the minimum credential length.
func Password(s string) error {
	return field(s, "password", "required,min=8")
}

// LoginAttemptID checks that s is a UUID.
func LoginAttemptID(s string) error {
	return field(s, "loginAttemptId", "required,uuid")
}

// TwoFACode checks that s is exactly six digits in [100000, 999999].
func TwoFACode(s string) error {
	if err := field(s, "2FACode", "required,len=6,numeric"); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minTwoFACode || n > maxTwoFACode {
		return fmt.Errorf("field '2FACode' failed 'range'")
	}
	return nil
}

func field(s, name, tag string) error {
	if err := v.Var(s, tag); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok || len(ve) == 0 {
			return err
		}
		return fmt.Errorf("field '%s' failed '%s'", name, ve[0].Tag())
	}
	return nil
}

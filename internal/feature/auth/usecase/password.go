package usecase

import (
	"unicode/utf16"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 20
)

// validatePassword checks the password policy: 8 to 20 characters, no line terminators,
// and at least one ASCII digit, uppercase and lowercase letter. Other characters are allowed.
// Length is counted in UTF-16 code units, so a character outside the BMP (e.g. most emoji) counts twice.
func validatePassword(password string) error {
	if !utf8.ValidString(password) {
		return ErrPasswordPolicy
	}
	n := utf16Len(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return ErrPasswordPolicy
	}

	var digit, upper, lower bool
	for _, r := range password {
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			return ErrPasswordPolicy
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		}
	}
	if !digit || !upper || !lower {
		return ErrPasswordPolicy
	}
	return nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

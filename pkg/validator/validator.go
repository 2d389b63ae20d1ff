// Package validator holds the account field rules shared by registration,
// admin member creation and password changes.
package validator

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/utkandevrim/ac/pkg/errors"
)

// SpecialChars is the set a password must draw at least one character from.
const SpecialChars = `!@#$%^&*(),.?":{}|<>`

const (
	PasswordMinLen = 8
	PasswordMaxLen = 16
)

// Rule identifiers carried in ValidationError.Rule.
const (
	RuleUsernameFormat  = "username_format"
	RulePasswordLength  = "password_length"
	RulePasswordLetter  = "password_letter"
	RulePasswordSpecial = "password_special"
)

var usernamePattern = regexp.MustCompile(`^[a-z]+\.[a-z]+$`)

// ValidateUsername accepts exactly two lowercase ASCII segments joined by one dot.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return apperrors.NewValidation("username", RuleUsernameFormat,
			"username must look like name.surname using lowercase letters a-z")
	}
	return nil
}

// ValidatePassword reports the first unmet password rule.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return apperrors.NewValidation("password", RulePasswordLength,
			"password must be 8-16 characters long")
	}
	if !strings.ContainsFunc(password, isASCIILetter) {
		return apperrors.NewValidation("password", RulePasswordLetter,
			"password must contain at least one letter")
	}
	if !strings.ContainsAny(password, SpecialChars) {
		return apperrors.NewValidation("password", RulePasswordSpecial,
			"password must contain at least one special character "+SpecialChars)
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// dotless i and dotted capital I do not decompose to a base letter under NFD.
var turkishFold = strings.NewReplacer("ı", "i", "İ", "I")

// FoldASCII strips diacritics, mapping each letter to its ASCII base letter.
func FoldASCII(s string) string {
	s = turkishFold.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// DeriveUsername builds name.surname from display names. Multi-word names are
// concatenated. It returns "" when either half has no usable letters.
func DeriveUsername(name, surname string) string {
	first := letterPart(name)
	last := letterPart(surname)
	if first == "" || last == "" {
		return ""
	}
	return first + "." + last
}

func letterPart(s string) string {
	s = strings.ToLower(FoldASCII(s))
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

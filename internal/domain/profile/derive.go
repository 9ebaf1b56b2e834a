// Package profile derives user profile attributes from identity fields.
package profile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlantSuffix is appended to a derived plant code.
const PlantSuffix = "P"

// DepartmentFromDisplayName returns the text strictly between the first '('
// and the final character of displayName, e.g. "Somchai (Finance)" yields
// "Finance". Names without '(' or too short to hold a department yield "".
func DepartmentFromDisplayName(displayName string) string {
	if displayName == "" {
		return ""
	}
	open := strings.IndexRune(displayName, '(')
	if open < 0 {
		return ""
	}
	rest := displayName[open+1:]
	_, lastSize := utf8.DecodeLastRuneInString(rest)
	if len(rest) <= lastSize {
		return ""
	}
	return rest[:len(rest)-lastSize]
}

// PlantFromEmail derives a plant code from the local part of an email:
// the text after the first ASCII digit and before the first '@', with the
// first rune upper-cased and PlantSuffix appended. "user1bkk@company.com"
// yields "BkkP".
//
// When the digit does not precede '@', or nothing sits between them, the
// result is "" rather than a bare suffix.
func PlantFromEmail(email string) string {
	if email == "" {
		return ""
	}
	digit := strings.IndexFunc(email, isASCIIDigit)
	at := strings.IndexByte(email, '@')
	if digit < 0 || at <= digit {
		return ""
	}
	code := email[digit+1 : at]
	if code == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(code)
	return string(unicode.ToUpper(first)) + code[size:] + PlantSuffix
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

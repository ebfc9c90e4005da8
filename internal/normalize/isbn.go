package normalize

import "strings"

// CleanISBN strips everything except digits and the ISBN-10 check character
// 'X' from a raw ISBN string, returning the cleaned value only when it has a
// valid length (10 or 13). Anything else becomes absent rather than being
// stored malformed.
func CleanISBN(raw *string) *string {
	s := CleanText(raw)
	if s == nil {
		return nil
	}
	var b strings.Builder
	for _, r := range *s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'X' || r == 'x':
			b.WriteRune('X')
		}
	}
	cleaned := b.String()
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return nil
	}
	return &cleaned
}

// IsISBN13 reports whether a cleaned value is a usable ISBN-13: exactly 13
// digits. The check digit is not verified; length and digit-ness are the
// contract for identity resolution.
func IsISBN13(v *string) bool {
	if v == nil || len(*v) != 13 {
		return false
	}
	for _, r := range *v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsISBN10 reports whether a cleaned value has ISBN-10 shape: nine digits
// followed by a digit or 'X'.
func IsISBN10(v *string) bool {
	if v == nil || len(*v) != 10 {
		return false
	}
	for i, r := range *v {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == 'X' && i == 9 {
			continue
		}
		return false
	}
	return true
}

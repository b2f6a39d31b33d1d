package core

import (
	"fmt"
	"strings"
)

const (
	isbn10Length = 10
	isbn13Length = 13
)

// NormalizeISBN strips hyphens and spaces and verifies the ISBN-10 or ISBN-13 check digit.
// An ISBN-10 check digit "x" is upper-cased.
func NormalizeISBN(raw string) (ISBNString, error) {
	isbn := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw)))

	switch len(isbn) {
	case isbn10Length:
		if validISBN10(isbn) {
			return isbn, nil
		}
	case isbn13Length:
		if validISBN13(isbn) {
			return isbn, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidISBN, raw)
}

func validISBN10(isbn string) bool {
	sum := 0

	for i := 0; i < isbn10Length; i++ {
		var digit int

		switch c := isbn[i]; {
		case c >= '0' && c <= '9':
			digit = int(c - '0')
		case c == 'X' && i == isbn10Length-1:
			digit = 10
		default:
			return false
		}

		sum += digit * (isbn10Length - i)
	}

	return sum%11 == 0
}

func validISBN13(isbn string) bool {
	sum := 0

	for i := 0; i < isbn13Length; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}

		weight := 1
		if i%2 == 1 {
			weight = 3
		}

		sum += int(c-'0') * weight
	}

	return sum%10 == 0
}

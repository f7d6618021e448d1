package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return strings.ToLower(s), reEmail.MatchString(s)
}

// ID validates a simple resource identifier (product/cart item/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Qty clamps a requested quantity into [1,50].
func Qty(n int) (int, bool) {
	if n < 1 {
		return 0, false
	}
	if n > 50 {
		return 50, true
	}
	return n, true
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// Password enforces length plus character-class variety.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 { // bcrypt input cap
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// PaymentMethod checks the checkout enum.
func PaymentMethod(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "stripe", "paypal", "razorpay":
		return s, true
	}
	return "", false
}

// Category checks the product category enum.
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "Electronics", "Clothing", "Home", "Books", "Toys", "Beauty", "Sports", "Other":
		return s, true
	}
	return "", false
}

// Rating validates a review score.
func Rating(n int) bool { return n >= 1 && n <= 5 }

// Comment trims and bounds a review comment.
func Comment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 500 {
		return "", false
	}
	return s, true
}

// Money validates an optional non-negative amount (tax, shipping).
func Money(f float64) bool { return f >= 0 }

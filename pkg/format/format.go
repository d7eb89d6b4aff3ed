// Package format holds display helpers shared by the notification bodies and
// API responses: peso amounts, Philippine mobile numbers, and URL slugs.
package format

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonDigits = regexp.MustCompile(`\D`)

var (
	slugInvalid    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// Peso renders an amount with the peso sign and thousands separators,
// dropping the fraction when it is zero (₱1,000 rather than ₱1,000.00).
func Peso(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	abs := amount.Abs()

	whole := abs.Truncate(0)
	fraction := abs.Sub(whole)

	out := groupThousands(whole.String())
	if !fraction.IsZero() {
		frac := fraction.StringFixed(2)
		out += strings.TrimPrefix(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return "₱" + out
}

// NormalizePhone strips everything but digits from a phone number.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidMobile reports whether the number matches the recognized local
// patterns: 09XXXXXXXXX or 639XXXXXXXXX.
func ValidMobile(phone string) bool {
	cleaned := NormalizePhone(phone)
	switch {
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "09"):
		return true
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "639"):
		return true
	default:
		return false
	}
}

// MobileForDisplay formats a valid mobile number as 09XX XXX XXXX or
// +63 9XX XXX XXXX. Unrecognized input is returned untouched.
func MobileForDisplay(phone string) string {
	cleaned := NormalizePhone(phone)
	switch {
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "09"):
		return cleaned[:4] + " " + cleaned[4:7] + " " + cleaned[7:]
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "639"):
		return "+63 " + cleaned[2:5] + " " + cleaned[5:8] + " " + cleaned[8:]
	default:
		return phone
	}
}

// Slugify converts text into a URL-safe slug.
func Slugify(text string) string {
	out := strings.ToLower(strings.TrimSpace(text))
	out = slugInvalid.ReplaceAllString(out, "")
	out = slugSeparators.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

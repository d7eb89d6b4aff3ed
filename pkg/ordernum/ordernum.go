// Package ordernum generates human-shareable order numbers of the form
// SS-YYMMDD-XXXX: the store prefix, the UTC order date, and a short random
// suffix. Numbers sort by creation day; uniqueness within a day relies on the
// random suffix and is treated as overwhelmingly probable, not guaranteed.
package ordernum

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const (
	prefix       = "SS"
	suffixLen    = 4
	suffixChars  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberFormat = prefix + "-%s-%s"
)

// Generate returns a new order number stamped with the given creation time.
func Generate(at time.Time) string {
	return fmt.Sprintf(numberFormat, at.UTC().Format("060102"), randomSuffix())
}

// Valid reports whether a string looks like an order number this package
// produced. Lookup endpoints use it to reject junk before hitting the store.
func Valid(number string) bool {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return false
	}
	if len(parts[1]) != 6 || len(parts[2]) != suffixLen {
		return false
	}
	if _, err := time.Parse("060102", parts[1]); err != nil {
		return false
	}
	for _, r := range parts[2] {
		if !strings.ContainsRune(suffixChars, r) {
			return false
		}
	}
	return true
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for this process
		panic(fmt.Sprintf("ordernum: reading random bytes: %v", err))
	}
	out := make([]byte, suffixLen)
	for i, b := range buf {
		out[i] = suffixChars[int(b)%len(suffixChars)]
	}
	return string(out)
}

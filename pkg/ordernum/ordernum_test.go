package ordernum

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	number := Generate(at)

	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %q", number)
	}
	if parts[0] != "SS" {
		t.Fatalf("expected SS prefix, got %q", parts[0])
	}
	if parts[1] != "250615" {
		t.Fatalf("expected date segment 250615, got %q", parts[1])
	}
	if len(parts[2]) != 4 {
		t.Fatalf("expected 4-char suffix, got %q", parts[2])
	}
}

func TestGenerateUsesUTCDate(t *testing.T) {
	t.Parallel()

	manila := time.FixedZone("PHT", 8*60*60)
	// 2am Manila on the 16th is still the 15th in UTC
	at := time.Date(2025, 6, 16, 2, 0, 0, 0, manila)
	number := Generate(at)
	if !strings.Contains(number, "-250615-") {
		t.Fatalf("expected UTC date 250615 in %q", number)
	}
}

func TestGenerateSuffixVaries(t *testing.T) {
	t.Parallel()

	at := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		seen[Generate(at)] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatal("expected random suffixes to vary")
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		number string
		want   bool
	}{
		{"SS-250615-A1B2", true},
		{"SS-250615-ZZZZ", true},
		{"", false},
		{"SS-250615", false},
		{"XX-250615-A1B2", false},
		{"SS-251315-A1B2", false}, // month 13
		{"SS-250615-a1b2", false}, // lowercase suffix
		{"SS-250615-A1B", false},
		{"SS-250615-A1B2-X", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.number); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.number, got, tc.want)
		}
	}
}

func TestGenerateRoundTripsValid(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		number := Generate(time.Now())
		if !Valid(number) {
			t.Fatalf("generated number failed validation: %q", number)
		}
	}
}

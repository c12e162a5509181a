package ai

import "testing"

func ptr[T any](v T) *T { return &v }

func TestCleanString(t *testing.T) {
	tests := []struct {
		in   *string
		want string
	}{
		{nil, ""},
		{ptr(""), ""},
		{ptr("  Bob  "), "Bob"},
		{ptr("NULL"), ""},
		{ptr("n/a"), ""},
		{ptr("Unknown"), ""},
		{ptr("None"), ""},
		{ptr("Nonna Rosa"), "Nonna Rosa"},
	}
	for _, tt := range tests {
		if got := cleanString(tt.in); got != tt.want {
			t.Errorf("cleanString(%v) = %q, want %q", strOrNil(tt.in), got, tt.want)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0412 345 678", "0412345678"},
		{"+61 (3) 9123-4567", "61391234567"},
		{"call me", ""},
	}
	for _, tt := range tests {
		if got := digitsOnly(tt.in); got != tt.want {
			t.Errorf("digitsOnly(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Jane@Example.COM", "jane@example.com"},
		{"jane at example dot com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanEmail(tt.in); got != tt.want {
			t.Errorf("cleanEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		in   *float64
		want int
	}{
		{nil, 0},
		{ptr(-20.0), 0},
		{ptr(0.0), 0},
		{ptr(149.6), 150},
		{ptr(200.0), 200},
		{ptr(float64(MaxPrice)), MaxPrice},
		{ptr(float64(MaxPrice) + 1), 0},
		{ptr(9.3e18), 0},
		{ptr(1e19), 0},
	}
	for _, tt := range tests {
		if got := cleanPrice(tt.in); got != tt.want {
			t.Errorf("cleanPrice = %d, want %d", got, tt.want)
		}
	}
}

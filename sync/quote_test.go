package sync

import (
	"math"
	"testing"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"true", true, "1"},
		{"false", false, "0"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 2.5, "2.5"},
		{"float integral", float64(16), "16"},
		{"nan", math.NaN(), "NULL"},
		{"positive inf", math.Inf(1), "NULL"},
		{"negative inf", math.Inf(-1), "NULL"},
		{"plain string", "hello", "'hello'"},
		{"empty string", "", "''"},
		{"single quote doubled", "it's", "'it''s'"},
		{"nul byte stripped", "a\x00b", "'ab'"},
		{"quote injection", "'; DROP TABLE x; --", "'''; DROP TABLE x; --'"},
		{"unicode", "土木工程", "'土木工程'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.in); got != tt.want {
				t.Errorf("Quote(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

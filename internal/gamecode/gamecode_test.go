package gamecode

import (
	"testing"

	"github.com/lox/ridethebus/internal/randutil"
)

func TestGenerateValidCodes(t *testing.T) {
	t.Parallel()
	for i := 0; i < 100; i++ {
		code := Generate()
		if err := Validate(code); err != nil {
			t.Fatalf("generated invalid code %q: %v", code, err)
		}
	}
}

type rngSource struct{ rng interface{ IntN(int) int } }

func (r rngSource) Intn(n int) int { return r.rng.IntN(n) }

func TestGenerateDeterministicWithRandSource(t *testing.T) {
	t.Parallel()
	a := NewGenerator(rngSource{randutil.New(7)}).Generate()
	b := NewGenerator(rngSource{randutil.New(7)}).Generate()
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
	if err := Validate(a); err != nil {
		t.Errorf("deterministic code %q invalid: %v", a, err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"ABCDE", false},
		{"R2D22", false},
		{"ABCD", true},   // too short
		{"ABCDEF", true}, // too long
		{"ABC1E", true},  // 1 not in alphabet
		{"abcde", true},  // lower case
		{"ABC E", true},  // space
	}
	for _, tt := range tests {
		err := Validate(tt.code)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %t", tt.code, err, tt.wantErr)
		}
	}
}

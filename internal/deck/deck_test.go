package deck

import (
	"errors"
	"testing"
)

func TestDeckDeterministicForSeed(t *testing.T) {
	t.Parallel()
	for _, seed := range []int64{0, 1, 42, -7, 1<<62 + 3} {
		a := New(seed)
		b := New(seed)
		for i := 0; i < 52; i++ {
			ca, err := a.Draw()
			if err != nil {
				t.Fatalf("seed %d draw %d: %v", seed, i, err)
			}
			cb, _ := b.Draw()
			if ca != cb {
				t.Fatalf("seed %d draw %d: %v != %v", seed, i, ca, cb)
			}
		}
	}
}

func TestDeckContainsAll52Cards(t *testing.T) {
	t.Parallel()
	d := New(99)
	seen := make(map[Card]bool, 52)
	for !d.Empty() {
		c, err := d.Draw()
		if err != nil {
			t.Fatalf("unexpected draw error: %v", err)
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("drew %d distinct cards, want 52", len(seen))
	}
}

func TestDrawEmptyDeck(t *testing.T) {
	t.Parallel()
	d := New(1)
	if _, err := d.DrawN(52); err != nil {
		t.Fatalf("DrawN(52): %v", err)
	}
	if _, err := d.Draw(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if _, err := d.DrawN(1); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck from DrawN, got %v", err)
	}
}

func TestDrawNDoesNotPartiallyDraw(t *testing.T) {
	t.Parallel()
	d := New(1)
	if _, err := d.DrawN(53); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if d.Remaining() != 52 {
		t.Fatalf("failed DrawN mutated the deck: %d remaining", d.Remaining())
	}
}

func TestReturnAndReshuffleKeepsComposition(t *testing.T) {
	t.Parallel()
	d := New(7)
	c, err := d.Draw()
	if err != nil {
		t.Fatal(err)
	}
	d.ReturnAndReshuffle(c)
	if d.Remaining() != 52 {
		t.Fatalf("remaining = %d, want 52", d.Remaining())
	}
	seen := make(map[Card]bool, 52)
	for !d.Empty() {
		c, _ := d.Draw()
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("composition broken after reshuffle: %d distinct", len(seen))
	}
}

// Package deck implements the standard 52-card deck shared by both rule
// engines. Decks are shuffled once at construction from a caller-provided
// seed; the same seed always yields the same order.
package deck

import (
	"errors"
	rand "math/rand/v2"

	"github.com/lox/ridethebus/internal/randutil"
)

// ErrEmptyDeck is returned when a draw is attempted on an exhausted deck.
// Games are provisioned with enough cards for their documented maximums,
// so hitting this indicates a caller contract violation, not a condition
// worth recovering from.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is an ordered run of cards. Draws pop from the front. The deck keeps
// the rng it was shuffled with so boundary reshuffles stay on the same
// deterministic stream.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck shuffled by the deterministic generator
// seeded from seed (see internal/randutil for the fixed algorithm).
func New(seed int64) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   randutil.New(seed),
	}
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.shuffle()
	return d
}

// FromCards builds a deck with an explicit card order instead of shuffling,
// for rigged sequences in tests and demos. The seed still drives any later
// boundary reshuffles.
func FromCards(seed int64, cards ...Card) *Deck {
	return &Deck{
		cards: append([]Card(nil), cards...),
		rng:   randutil.New(seed),
	}
}

// Fisher-Yates over the remaining cards.
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the front card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN draws n cards from the front. It fails with ErrEmptyDeck before
// drawing anything if fewer than n remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	cards := make([]Card, n)
	for i := range cards {
		cards[i], _ = d.Draw()
	}
	return cards, nil
}

// ReturnAndReshuffle puts a drawn card back and reshuffles the remaining
// deck on the deck's own rng stream. Used by the deal-phase boundary rule,
// where an equal-rank draw doesn't resolve the round.
func (d *Deck) ReturnAndReshuffle(c Card) {
	d.cards = append([]Card{c}, d.cards...)
	d.shuffle()
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Empty returns true if the deck has no cards left.
func (d *Deck) Empty() bool {
	return len(d.cards) == 0
}

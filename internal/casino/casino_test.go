package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ridethebus/internal/deck"
)

// riggedSession stakes bet on a full deck with the named cards on top.
func riggedSession(t *testing.T, bet float64, front string) *Session {
	t.Helper()
	cards, err := deck.ParseCards(front)
	require.NoError(t, err)

	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		require.False(t, seen[c], "duplicate rigged card %s", c)
		seen[c] = true
	}
	for _, suit := range deck.Suits {
		for r := deck.Two; r <= deck.Ace; r++ {
			if c := deck.NewCard(suit, r); !seen[c] {
				cards = append(cards, c)
			}
		}
	}

	s, err := NewSession(bet, 1, nil, WithDeck(deck.FromCards(1, cards...)))
	require.NoError(t, err)
	return s
}

func TestNewSessionRejectsBadBet(t *testing.T) {
	t.Parallel()
	_, err := NewSession(0, 1, nil)
	assert.Error(t, err)
	_, err = NewSession(-5, 1, nil)
	assert.Error(t, err)
}

func TestSameSeedSameCards(t *testing.T) {
	t.Parallel()
	run := func() []deck.Card {
		s, err := NewSession(10, 777, nil)
		require.NoError(t, err)
		for s.Status() == InProgress {
			var g Guess
			switch s.Round() {
			case 1:
				g = ColorGuess{Color: deck.Red}
			case 2:
				g = DirectionGuess{Direction: Higher}
			case 3:
				g = RangeGuess{Range: Inside}
			case 4:
				g = SuitGuess{Suit: s.UnseenSuits()[0]}
			}
			_, err := s.Guess(g)
			require.NoError(t, err)
		}
		return s.Drawn()
	}
	assert.Equal(t, run(), run())
}

func TestRound1BustPaysZero(t *testing.T) {
	t.Parallel()
	for _, bet := range []float64{1, 10, 5000} {
		s := riggedSession(t, bet, "Ah")
		o, err := s.Guess(ColorGuess{Color: deck.Black})
		require.NoError(t, err)
		assert.False(t, o.Correct)
		assert.Equal(t, Busted, s.Status())
		assert.Zero(t, o.Payout)
		assert.Zero(t, s.Payout())
	}
}

func TestCashOutAfterRoundTwo(t *testing.T) {
	t.Parallel()
	s := riggedSession(t, 10, "2hTs")

	o, err := s.Guess(ColorGuess{Color: deck.Red})
	require.NoError(t, err)
	require.True(t, o.Correct)
	assert.Equal(t, 2.0, o.Multiplier)

	o, err = s.Guess(DirectionGuess{Direction: Higher})
	require.NoError(t, err)
	require.True(t, o.Correct)
	assert.Equal(t, 4.0, o.Multiplier)

	o, err = s.CashOut()
	require.NoError(t, err)
	assert.Equal(t, CashedOut, o.Status)
	assert.Equal(t, 40.0, o.Payout)
	assert.Equal(t, 40.0, s.Payout())

	// Terminal: nothing else is legal.
	_, err = s.Guess(RangeGuess{Range: Inside})
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.CashOut()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCashOutIllegalInRoundOne(t *testing.T) {
	t.Parallel()
	s := riggedSession(t, 10, "2h")
	_, err := s.CashOut()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRound2TieIsIncorrect(t *testing.T) {
	t.Parallel()
	for _, dir := range []Direction{Higher, Lower} {
		s := riggedSession(t, 10, "7h7c")
		_, err := s.Guess(ColorGuess{Color: deck.Red})
		require.NoError(t, err)

		o, err := s.Guess(DirectionGuess{Direction: dir})
		require.NoError(t, err)
		assert.False(t, o.Correct, "direction %s", dir)
		assert.Equal(t, Busted, s.Status())
		assert.Zero(t, s.Payout())
	}
}

func TestRound3BoundIsIncorrect(t *testing.T) {
	t.Parallel()
	for _, rng := range []Range{Inside, Outside} {
		s := riggedSession(t, 10, "4h9c9s")
		_, err := s.Guess(ColorGuess{Color: deck.Red})
		require.NoError(t, err)
		_, err = s.Guess(DirectionGuess{Direction: Higher})
		require.NoError(t, err)

		o, err := s.Guess(RangeGuess{Range: rng})
		require.NoError(t, err)
		assert.False(t, o.Correct, "range %s", rng)
		assert.Equal(t, Busted, s.Status())
	}
}

func TestRound4RejectsSeenSuit(t *testing.T) {
	t.Parallel()
	s := riggedSession(t, 10, "4h9c5sTd")
	_, err := s.Guess(ColorGuess{Color: deck.Red})
	require.NoError(t, err)
	_, err = s.Guess(DirectionGuess{Direction: Higher})
	require.NoError(t, err)
	_, err = s.Guess(RangeGuess{Range: Inside})
	require.NoError(t, err)

	require.Equal(t, []deck.Suit{deck.Diamonds}, s.UnseenSuits())

	// Reselecting a suit already on the board fails before a card is drawn.
	_, err = s.Guess(SuitGuess{Suit: deck.Hearts})
	require.ErrorIs(t, err, ErrInvalidGuess)
	assert.Len(t, s.Drawn(), 3)
	assert.Equal(t, InProgress, s.Status())

	o, err := s.Guess(SuitGuess{Suit: deck.Diamonds})
	require.NoError(t, err)
	assert.True(t, o.Correct)
	assert.Equal(t, Completed, s.Status())
	// Full ladder on default multipliers: 2 x 2 x 3 x 4.
	assert.Equal(t, 48.0, o.Multiplier)
	assert.Equal(t, 480.0, o.Payout)
}

func TestRound4WrongSuitBusts(t *testing.T) {
	t.Parallel()
	s := riggedSession(t, 10, "4h9c5sTh")
	_, err := s.Guess(ColorGuess{Color: deck.Red})
	require.NoError(t, err)
	_, err = s.Guess(DirectionGuess{Direction: Higher})
	require.NoError(t, err)
	_, err = s.Guess(RangeGuess{Range: Inside})
	require.NoError(t, err)

	// Diamonds is a legal pick, but the drawn card is a heart.
	o, err := s.Guess(SuitGuess{Suit: deck.Diamonds})
	require.NoError(t, err)
	assert.False(t, o.Correct)
	assert.Equal(t, Busted, s.Status())
	assert.Zero(t, s.Payout())
}

func TestWrongGuessKindLeavesSessionUntouched(t *testing.T) {
	t.Parallel()
	s := riggedSession(t, 10, "4h")
	_, err := s.Guess(DirectionGuess{Direction: Higher})
	require.ErrorIs(t, err, ErrInvalidGuess)
	assert.Empty(t, s.Drawn())
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, InProgress, s.Status())
}

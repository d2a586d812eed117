package engine

import (
	"fmt"

	"github.com/lox/ridethebus/internal/deck"
)

// ExecuteRound resolves the current deal round for the current player.
// The guess must be the kind the round accepts; a wrong kind fails with
// ErrInvalidGuess before any card is drawn. The resolved card joins the
// player's hand.
func (g *Game) ExecuteRound(guess Guess) (*Outcome, error) {
	if g.phase != PhaseDeal || g.dealComplete {
		return nil, fmt.Errorf("%w: deal round in phase %s", ErrInvalidState, g.phase)
	}
	if g.roundResolved {
		return nil, fmt.Errorf("%w: round %s already resolved, advance the turn first", ErrInvalidState, g.round)
	}

	player := g.players[g.playerIdx]

	var (
		outcome *Outcome
		err     error
	)
	switch g.round {
	case Round1:
		outcome, err = g.resolveColor(player, guess)
	case Round2:
		outcome, err = g.resolveDirection(player, guess)
	case Round3:
		outcome, err = g.resolveRange(player, guess)
	case Round4:
		outcome, err = g.resolveSuit(player, guess)
	}
	if err != nil {
		return nil, err
	}

	g.roundResolved = true
	g.logEvent(Event{
		Type:     EventGuessMade,
		PlayerID: player.ID,
		Card:     cardRef(outcome.Card),
		Note:     fmt.Sprintf("%s correct=%t", g.round, outcome.Correct),
	})
	if outcome.Penalty > 0 {
		g.logEvent(Event{Type: EventPenaltyApplied, PlayerID: player.ID, Amount: outcome.Penalty})
	}
	if outcome.Reward > 0 {
		g.logEvent(Event{Type: EventRewardAssigned, PlayerID: player.ID, Amount: outcome.Reward})
	}
	g.logger.Debug("round resolved",
		"round", g.round, "player", player.Name,
		"card", outcome.Card, "correct", outcome.Correct)
	return outcome, nil
}

// AdvanceTurn moves the deal cursor: R1 through R4 for each player in join
// order. After the last player's R4 the deal phase is complete and
// StartPyramid becomes legal.
func (g *Game) AdvanceTurn() error {
	if g.phase != PhaseDeal || g.dealComplete {
		return fmt.Errorf("%w: advance turn in phase %s", ErrInvalidState, g.phase)
	}
	if !g.roundResolved {
		return fmt.Errorf("%w: round %s not yet resolved", ErrInvalidState, g.round)
	}

	g.roundResolved = false
	if g.round < Round4 {
		g.round++
		return nil
	}
	g.playerIdx++
	g.round = Round1
	if g.playerIdx == len(g.players) {
		g.dealComplete = true
		g.playerIdx = 0
		g.logger.Debug("deal phase complete")
	}
	return nil
}

// R1: red or black.
func (g *Game) resolveColor(player *Player, guess Guess) (*Outcome, error) {
	colorGuess, ok := guess.(ColorGuess)
	if !ok {
		return nil, fmt.Errorf("%w: R1 wants a color", ErrInvalidGuess)
	}

	card, err := g.deck.Draw()
	if err != nil {
		return nil, err
	}
	player.Hand = append(player.Hand, card)

	correct := card.Color() == colorGuess.Color
	return g.scoreDealRound(player, card, correct, 0), nil
}

// R2: higher or lower than the player's first card. An equal-rank draw is a
// push: the card goes back, the remaining deck is reshuffled, and the same
// guess is re-evaluated against the same reference until a non-equal card
// resolves it.
func (g *Game) resolveDirection(player *Player, guess Guess) (*Outcome, error) {
	dirGuess, ok := guess.(DirectionGuess)
	if !ok {
		return nil, fmt.Errorf("%w: R2 wants higher or lower", ErrInvalidGuess)
	}

	reference := player.Hand[0]
	card, reshuffles, err := g.drawAvoidingRanks(player, reference.Rank)
	if err != nil {
		return nil, err
	}
	player.Hand = append(player.Hand, card)

	var correct bool
	switch dirGuess.Direction {
	case Higher:
		correct = card.Rank > reference.Rank
	case Lower:
		correct = card.Rank < reference.Rank
	}
	return g.scoreDealRound(player, card, correct, reshuffles), nil
}

// R3: strictly inside or strictly outside the open interval between the
// player's first two card ranks. A draw equal to either bound reshuffles
// exactly like R2.
func (g *Game) resolveRange(player *Player, guess Guess) (*Outcome, error) {
	rangeGuess, ok := guess.(RangeGuess)
	if !ok {
		return nil, fmt.Errorf("%w: R3 wants inside or outside", ErrInvalidGuess)
	}

	low, high := player.Hand[0].Rank, player.Hand[1].Rank
	if low > high {
		low, high = high, low
	}
	card, reshuffles, err := g.drawAvoidingRanks(player, low, high)
	if err != nil {
		return nil, err
	}
	player.Hand = append(player.Hand, card)

	inside := low < card.Rank && card.Rank < high
	correct := (rangeGuess.Range == Inside) == inside
	return g.scoreDealRound(player, card, correct, reshuffles), nil
}

// R4: exact suit. A correct call earns drinks to distribute rather than
// avoiding a penalty; the engine records the amount, distribution is the
// table's business.
func (g *Game) resolveSuit(player *Player, guess Guess) (*Outcome, error) {
	suitGuess, ok := guess.(SuitGuess)
	if !ok {
		return nil, fmt.Errorf("%w: R4 wants a suit", ErrInvalidGuess)
	}

	card, err := g.deck.Draw()
	if err != nil {
		return nil, err
	}
	player.Hand = append(player.Hand, card)

	correct := card.Suit == suitGuess.Suit
	outcome := g.scoreDealRound(player, card, correct, 0)
	if correct {
		outcome.Reward = g.cfg.Reward.DistributeDrinks
		player.DrinksAssigned += outcome.Reward
	}
	return outcome, nil
}

// drawAvoidingRanks draws until the card's rank matches none of avoid,
// returning boundary cards to the deck and reshuffling in between.
func (g *Game) drawAvoidingRanks(player *Player, avoid ...deck.Rank) (deck.Card, int, error) {
	reshuffles := 0
	for {
		card, err := g.deck.Draw()
		if err != nil {
			return deck.Card{}, 0, err
		}
		boundary := false
		for _, r := range avoid {
			if card.Rank == r {
				boundary = true
				break
			}
		}
		if !boundary {
			return card, reshuffles, nil
		}
		g.deck.ReturnAndReshuffle(card)
		reshuffles++
		g.logEvent(Event{
			Type:     EventBoundaryReshuffle,
			PlayerID: player.ID,
			Card:     cardRef(card),
			Note:     g.round.String(),
		})
		g.logger.Debug("boundary reshuffle", "round", g.round, "card", card)
	}
}

func (g *Game) scoreDealRound(player *Player, card deck.Card, correct bool, reshuffles int) *Outcome {
	outcome := &Outcome{
		Phase:      PhaseDeal,
		Round:      g.round,
		PlayerID:   player.ID,
		Card:       card,
		Correct:    correct,
		Reshuffles: reshuffles,
	}
	if !correct {
		outcome.Penalty = g.cfg.Penalty.ForRound(int(g.round))
		player.DrinksReceived += outcome.Penalty
	}
	return outcome
}

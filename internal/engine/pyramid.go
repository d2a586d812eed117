package engine

import (
	"fmt"

	"github.com/lox/ridethebus/internal/deck"
)

// StartPyramid deals 15 face-down cards into rows of 5,4,3,2,1 (bottom to
// top). Legal only once every player has completed R4.
func (g *Game) StartPyramid() error {
	if g.phase != PhaseDeal || !g.dealComplete {
		return fmt.Errorf("%w: pyramid cannot start before the deal completes", ErrInvalidState)
	}

	cards, err := g.deck.DrawN(pyramidCards)
	if err != nil {
		return err
	}

	g.pyramid = make([][]pyramidCell, len(pyramidRows))
	i := 0
	for row, width := range pyramidRows {
		g.pyramid[row] = make([]pyramidCell, width)
		for col := range g.pyramid[row] {
			g.pyramid[row][col] = pyramidCell{Card: cards[i]}
			i++
		}
	}
	g.committed = make(map[string]int)
	g.changePhase(PhasePyramid)
	return nil
}

// FlipPyramidCard flips the next face-down card, bottom row to top, left to
// right. The outcome's RowValue is the drink value every match against this
// flip assigns. The fifteenth flip completes the phase.
func (g *Game) FlipPyramidCard() (*Outcome, error) {
	if g.phase != PhasePyramid {
		return nil, fmt.Errorf("%w: pyramid flip in phase %s", ErrInvalidState, g.phase)
	}
	if g.flipped == pyramidCards {
		return nil, fmt.Errorf("%w: pyramid fully flipped", ErrInvalidState)
	}

	row, col := g.flipPosition(g.flipped)
	g.pyramid[row][col].FaceUp = true
	g.flipped++
	g.committed = make(map[string]int)
	g.pyramidActive = true

	card := g.pyramid[row][col].Card
	outcome := &Outcome{
		Phase:         PhasePyramid,
		Card:          card,
		RowValue:      g.cfg.Pyramid.RowValues[row],
		PhaseComplete: g.flipped == pyramidCards,
	}
	g.logEvent(Event{
		Type:   EventPyramidFlip,
		Card:   cardRef(card),
		Amount: outcome.RowValue,
		Note:   fmt.Sprintf("row %d", row+1),
	})
	g.logger.Debug("pyramid flip", "row", row+1, "card", card, "value", outcome.RowValue)
	return outcome, nil
}

// CommitMatch discards one of the player's hand cards matching the flipped
// card's rank and assigns the row's drink value to the target player. A
// player may commit once per flip unless the multiple-matches house rule is
// enabled.
func (g *Game) CommitMatch(playerID string, card deck.Card, targetID string) (*Outcome, error) {
	if g.phase != PhasePyramid || !g.pyramidActive {
		return nil, fmt.Errorf("%w: no pyramid card open for matches", ErrInvalidState)
	}

	player := g.Player(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: unknown player %q", ErrInvalidState, playerID)
	}
	target := g.Player(targetID)
	if target == nil {
		return nil, fmt.Errorf("%w: unknown target %q", ErrInvalidGuess, targetID)
	}
	if target == player {
		return nil, fmt.Errorf("%w: drinks go to other players", ErrInvalidGuess)
	}
	if !g.cfg.HouseRules.AllowMultipleMatchesPerFlip && g.committed[playerID] > 0 {
		return nil, fmt.Errorf("%w: player already matched this flip", ErrInvalidState)
	}

	row, col := g.flipPosition(g.flipped - 1)
	flipped := g.pyramid[row][col].Card
	if card.Rank != flipped.Rank {
		return nil, fmt.Errorf("%w: %s does not match flipped %s", ErrInvalidGuess, card, flipped)
	}
	if !player.hasRank(flipped.Rank) {
		return nil, fmt.Errorf("%w: no %s in hand", ErrEmptyHand, flipped.Rank)
	}
	if !player.removeCard(card) {
		return nil, fmt.Errorf("%w: %s not held", ErrEmptyHand, card)
	}

	g.discard = append(g.discard, card)
	g.committed[playerID]++

	value := g.cfg.Pyramid.RowValues[row]
	player.DrinksAssigned += value
	target.DrinksReceived += value

	g.logEvent(Event{
		Type:     EventMatchCommitted,
		PlayerID: playerID,
		Card:     cardRef(card),
		Amount:   value,
		Note:     "to " + targetID,
	})
	g.logger.Debug("match committed",
		"player", player.Name, "card", card, "target", target.Name, "drinks", value)

	return &Outcome{
		Phase:    PhasePyramid,
		PlayerID: playerID,
		Card:     card,
		Correct:  true,
		Drinks:   value,
		RowValue: value,
	}, nil
}

// PyramidCard returns the card at (row, col) and whether it is face up.
// Row 0 is the bottom row of five.
func (g *Game) PyramidCard(row, col int) (deck.Card, bool, error) {
	if g.pyramid == nil {
		return deck.Card{}, false, fmt.Errorf("%w: pyramid not dealt", ErrInvalidState)
	}
	if row < 0 || row >= len(g.pyramid) || col < 0 || col >= len(g.pyramid[row]) {
		return deck.Card{}, false, fmt.Errorf("%w: no pyramid cell (%d,%d)", ErrInvalidState, row, col)
	}
	cell := g.pyramid[row][col]
	return cell.Card, cell.FaceUp, nil
}

// flipPosition maps a flat flip index to (row, col), bottom-to-top.
func (g *Game) flipPosition(n int) (int, int) {
	for row, width := range pyramidRows {
		if n < width {
			return row, n
		}
		n -= width
	}
	return -1, -1
}

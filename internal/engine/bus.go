package engine

import (
	"fmt"

	"github.com/lox/ridethebus/internal/deck"
)

// StartBus selects the rider and deals the 10 bus cards. Legal only once
// all 15 pyramid cards have been flipped.
//
// Rider selection: most cards left in hand; ties go to the tied player with
// the highest single remaining card (Ace high); a remaining tie goes to the
// earliest-joined player. The fallback is deliberate and stable, never
// randomized.
func (g *Game) StartBus() error {
	if g.phase != PhasePyramid || g.flipped != pyramidCards {
		return fmt.Errorf("%w: bus cannot start before the pyramid completes", ErrInvalidState)
	}

	cards, err := g.deck.DrawN(busCards)
	if err != nil {
		return err
	}

	rider := g.players[0]
	for _, p := range g.players[1:] {
		switch {
		case len(p.Hand) > len(rider.Hand):
			rider = p
		case len(p.Hand) == len(rider.Hand) && p.HighestCard() > rider.HighestCard():
			rider = p
		}
	}
	rider.IsRider = true
	g.riderID = rider.ID
	g.busCards = cards
	g.pyramidActive = false

	g.logEvent(Event{
		Type:     EventRiderSelected,
		PlayerID: rider.ID,
		Amount:   len(rider.Hand),
	})
	g.logger.Debug("rider selected", "rider", rider.Name, "handSize", len(rider.Hand))
	g.changePhase(PhaseBus)
	return nil
}

// FlipBusCard reveals the next bus card. Jack, Queen, King and Ace assign
// 1, 2, 3 and 4 drinks to the rider; every other rank scores nothing and
// just advances the sequence. The rider does not guess. The tenth flip
// finishes the game.
func (g *Game) FlipBusCard() (*Outcome, error) {
	if g.phase != PhaseBus {
		return nil, fmt.Errorf("%w: bus flip in phase %s", ErrInvalidState, g.phase)
	}
	if g.busCursor == len(g.busCards) {
		return nil, fmt.Errorf("%w: bus already complete", ErrInvalidState)
	}

	card := g.busCards[g.busCursor]
	g.busCursor++

	drinks := busDrinks(card.Rank)
	rider := g.Player(g.riderID)
	rider.DrinksReceived += drinks

	outcome := &Outcome{
		Phase:         PhaseBus,
		PlayerID:      rider.ID,
		Card:          card,
		Drinks:        drinks,
		PhaseComplete: g.busCursor == len(g.busCards),
	}
	g.logEvent(Event{
		Type:     EventBusFlip,
		PlayerID: rider.ID,
		Card:     cardRef(card),
		Amount:   drinks,
	})
	g.logger.Debug("bus flip", "card", card, "drinks", drinks, "position", g.busCursor)

	if outcome.PhaseComplete {
		g.changePhase(PhaseFinished)
	}
	return outcome, nil
}

// BusProgress returns flips taken and the bus length.
func (g *Game) BusProgress() (taken, total int) {
	return g.busCursor, len(g.busCards)
}

func busDrinks(r deck.Rank) int {
	switch r {
	case deck.Jack:
		return 1
	case deck.Queen:
		return 2
	case deck.King:
		return 3
	case deck.Ace:
		return 4
	default:
		return 0
	}
}

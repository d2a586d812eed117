package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/ridethebus/internal/config"
	"github.com/lox/ridethebus/internal/deck"
	"github.com/lox/ridethebus/internal/engine"
)

var (
	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	playerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// PlayCmd deals a complete social game, guessing for every player with a
// simple card-counting policy, and prints the outcome log.
type PlayCmd struct {
	Players []string `kong:"arg,optional,help='Player names (default: Alice Bob Cara)'"`
	Seed    *int64   `kong:"help='Deterministic shuffle seed (optional)'"`
	Config  string   `kong:"default='ridethebus.hcl',help='Path to HCL config file'"`
	Debug   bool     `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	players := c.Players
	if len(players) == 0 {
		players = []string{"Alice", "Bob", "Cara"}
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	logger.Debug("starting game", "seed", seed, "players", len(players))

	g, err := engine.New(players, seed, cfg, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println(phaseStyle.Render("=== Deal ==="))
	if err := c.runDeal(g, cfg); err != nil {
		return err
	}

	fmt.Println(phaseStyle.Render("=== Pyramid ==="))
	if err := c.runPyramid(g); err != nil {
		return err
	}

	fmt.Println(phaseStyle.Render("=== Bus ==="))
	if err := c.runBus(g); err != nil {
		return err
	}

	c.printTally(g, cfg)
	return nil
}

// runDeal plays all four rounds for every player using hand-aware guesses.
func (c *PlayCmd) runDeal(g *engine.Game, cfg *config.Config) error {
	for !g.DealComplete() {
		player := g.CurrentPlayer()
		o, err := g.ExecuteRound(pickGuess(g.Round(), player.Hand))
		if err != nil {
			return err
		}

		verdict := winStyle.Render("correct")
		if !o.Correct {
			verdict = loseStyle.Render(fmt.Sprintf("wrong, %d %s(s)", o.Penalty, cfg.Mode.Unit()))
		}
		fmt.Printf("  %s %s drew %s: %s\n",
			o.Round, playerStyle.Render(player.Name), cardStyle.Render(o.Card.String()), verdict)

		if err := g.AdvanceTurn(); err != nil {
			return err
		}
	}
	return g.StartPyramid()
}

// runPyramid flips all fifteen cards, committing any matching hand cards
// against the player currently holding the fewest drinks.
func (c *PlayCmd) runPyramid(g *engine.Game) error {
	for {
		o, err := g.FlipPyramidCard()
		if err != nil {
			return err
		}
		fmt.Printf("  flip %s (row worth %d)\n", cardStyle.Render(o.Card.String()), o.RowValue)

		for _, p := range g.Players() {
			card, ok := matchingCard(p.Hand, o.Card.Rank)
			if !ok {
				continue
			}
			target := lightestTarget(g, p.ID)
			committed, err := g.CommitMatch(p.ID, card, target.ID)
			if err != nil {
				continue
			}
			fmt.Printf("    %s plays %s, %s drinks %d\n",
				playerStyle.Render(p.Name), cardStyle.Render(card.String()),
				playerStyle.Render(target.Name), committed.Drinks)
		}

		if o.PhaseComplete {
			return g.StartBus()
		}
	}
}

func (c *PlayCmd) runBus(g *engine.Game) error {
	rider := g.Rider()
	fmt.Printf("  %s rides the bus with %d cards left\n",
		playerStyle.Render(rider.Name), len(rider.Hand))

	for {
		o, err := g.FlipBusCard()
		if err != nil {
			return err
		}
		if o.Drinks > 0 {
			fmt.Printf("  %s: %s\n", cardStyle.Render(o.Card.String()),
				loseStyle.Render(fmt.Sprintf("+%d", o.Drinks)))
		} else {
			fmt.Printf("  %s: safe\n", cardStyle.Render(o.Card.String()))
		}
		if o.PhaseComplete {
			return nil
		}
	}
}

func (c *PlayCmd) printTally(g *engine.Game, cfg *config.Config) {
	fmt.Println(phaseStyle.Render("=== Tally ==="))
	for _, p := range g.Players() {
		fmt.Printf("  %s: %d %s(s)\n", playerStyle.Render(p.Name), p.DrinksReceived, cfg.Mode.Unit())
	}
}

// pickGuess chooses the statistically favored guess for the round given the
// cards the player already holds.
func pickGuess(round engine.Round, hand []deck.Card) engine.Guess {
	switch round {
	case engine.Round1:
		return engine.ColorGuess{Color: deck.Red}
	case engine.Round2:
		if hand[0].Rank <= deck.Eight {
			return engine.DirectionGuess{Direction: engine.Higher}
		}
		return engine.DirectionGuess{Direction: engine.Lower}
	case engine.Round3:
		low, high := hand[0].Rank, hand[1].Rank
		if low > high {
			low, high = high, low
		}
		if high-low >= 7 {
			return engine.RangeGuess{Range: engine.Inside}
		}
		return engine.RangeGuess{Range: engine.Outside}
	default:
		return engine.SuitGuess{Suit: unseenSuit(hand)}
	}
}

// unseenSuit returns the first suit absent from the hand, or spades when all
// four are present.
func unseenSuit(hand []deck.Card) deck.Suit {
	for _, s := range deck.Suits {
		seen := false
		for _, c := range hand {
			if c.Suit == s {
				seen = true
				break
			}
		}
		if !seen {
			return s
		}
	}
	return deck.Spades
}

func matchingCard(hand []deck.Card, rank deck.Rank) (deck.Card, bool) {
	for _, c := range hand {
		if c.Rank == rank {
			return c, true
		}
	}
	return deck.Card{}, false
}

// lightestTarget picks the opponent with the fewest drinks received so far.
func lightestTarget(g *engine.Game, selfID string) *engine.Player {
	var target *engine.Player
	for _, p := range g.Players() {
		if p.ID == selfID {
			continue
		}
		if target == nil || p.DrinksReceived < target.DrinksReceived {
			target = p
		}
	}
	return target
}

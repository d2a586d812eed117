package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lox/ridethebus/internal/casino"
	"github.com/lox/ridethebus/internal/config"
	"github.com/lox/ridethebus/internal/deck"
	"github.com/lox/ridethebus/internal/strategy"
)

// CasinoCmd plays a casino ladder session interactively on stdin, showing
// the advisor's recommendation before each pick.
type CasinoCmd struct {
	Bet    float64 `kong:"default='10',help='Bet amount'"`
	Seed   *int64  `kong:"help='Deterministic shuffle seed (optional)'"`
	Config string  `kong:"default='ridethebus.hcl',help='Path to HCL config file'"`
	Debug  bool    `kong:"help='Enable debug logging'"`
}

func (c *CasinoCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	s, err := casino.NewSession(c.Bet, seed, cfg, casino.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("Betting %s on the ladder\n", winStyle.Render(fmt.Sprintf("$%.2f", c.Bet)))
	scanner := bufio.NewScanner(os.Stdin)

	for !s.Status().Terminal() {
		c.printBoard(s)

		rec := strategy.Advise(s)
		fmt.Printf("  advisor: %s (%.0f%% to hit, EV %.2f)\n",
			playerStyle.Render(rec.Action), rec.Probability*100, rec.ExpectedValue)

		guess, cashOut, err := c.prompt(s, scanner)
		if err != nil {
			return err
		}

		var outcome *casino.Outcome
		if cashOut {
			outcome, err = s.CashOut()
		} else {
			outcome, err = s.Guess(guess)
		}
		if err != nil {
			fmt.Println(loseStyle.Render("  " + err.Error()))
			continue
		}
		c.printOutcome(outcome)
	}

	fmt.Printf("Session %s, payout %s\n", s.Status(),
		winStyle.Render(fmt.Sprintf("$%.2f", s.Payout())))
	return nil
}

func (c *CasinoCmd) printBoard(s *casino.Session) {
	drawn := s.Drawn()
	board := make([]string, len(drawn))
	for i, card := range drawn {
		board[i] = card.String()
	}
	fmt.Printf("Round %d, %.0fx banked, board [%s]\n",
		s.Round(), s.Multiplier(), cardStyle.Render(strings.Join(board, " ")))
}

// prompt reads one legal choice for the current round.
func (c *CasinoCmd) prompt(s *casino.Session, scanner *bufio.Scanner) (casino.Guess, bool, error) {
	options := map[int]string{
		1: "red or black",
		2: "higher or lower (or cash)",
		3: "inside or outside (or cash)",
		4: "a suit: spades/hearts/diamonds/clubs (or cash)",
	}

	for {
		fmt.Printf("  pick %s: ", options[s.Round()])
		if !scanner.Scan() {
			return nil, false, scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if input == "cash" || input == "cashout" {
			return nil, true, nil
		}

		switch s.Round() {
		case 1:
			switch input {
			case "red", "r":
				return casino.ColorGuess{Color: deck.Red}, false, nil
			case "black", "b":
				return casino.ColorGuess{Color: deck.Black}, false, nil
			}
		case 2:
			switch input {
			case "higher", "h":
				return casino.DirectionGuess{Direction: casino.Higher}, false, nil
			case "lower", "l":
				return casino.DirectionGuess{Direction: casino.Lower}, false, nil
			}
		case 3:
			switch input {
			case "inside", "i":
				return casino.RangeGuess{Range: casino.Inside}, false, nil
			case "outside", "o":
				return casino.RangeGuess{Range: casino.Outside}, false, nil
			}
		case 4:
			if suit, err := deck.ParseSuit(input); err == nil {
				return casino.SuitGuess{Suit: suit}, false, nil
			}
		}
		fmt.Println(loseStyle.Render("  didn't catch that"))
	}
}

func (c *CasinoCmd) printOutcome(o *casino.Outcome) {
	switch {
	case o.Status == casino.CashedOut:
		fmt.Printf("  cashed out at %.0fx\n", o.Multiplier)
	case o.Correct:
		fmt.Printf("  %s: %s, %.0fx banked\n",
			cardStyle.Render(o.Card.String()), winStyle.Render("hit"), o.Multiplier)
	default:
		fmt.Printf("  %s: %s\n", cardStyle.Render(o.Card.String()), loseStyle.Render("bust"))
	}
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lox/ridethebus/internal/deck"
	"github.com/lox/ridethebus/internal/strategy"
)

// OddsCmd prints the rank and suit odds tables the advisor works from.
type OddsCmd struct {
	Suits bool `short:"s" help:"Include the round-4 suit odds table"`
}

func (c *OddsCmd) Run() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Println(phaseStyle.Render("Higher / Lower (round 2)"))
	fmt.Fprintln(w, "Reference\tHigher\tLower")
	for r := deck.Two; r <= deck.Ace; r++ {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r,
			percent(strategy.ProbHigher(r)), percent(strategy.ProbLower(r)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(phaseStyle.Render("Inside / Outside (round 3)"))
	fmt.Fprintln(w, "Gap\tInside\tOutside")
	for gap := 1; gap <= 12; gap++ {
		low := deck.Two
		high := low + deck.Rank(gap)
		fmt.Fprintf(w, "%d\t%s\t%s\n", gap,
			percent(strategy.ProbInside(low, high)), percent(strategy.ProbOutside(low, high)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if c.Suits {
		fmt.Println()
		fmt.Println(phaseStyle.Render("Suit (round 4)"))
		fmt.Fprintln(w, "Suits seen\tHit")
		for seen := 0; seen <= 3; seen++ {
			fmt.Fprintf(w, "%d\t%s\n", seen, percent(strategy.ProbSuit(seen)))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func percent(p float64) string {
	s := fmt.Sprintf("%.1f%%", p*100)
	if p >= 0.75 {
		return winStyle.Render(s)
	}
	if p <= 0.25 {
		return loseStyle.Render(s)
	}
	return s
}

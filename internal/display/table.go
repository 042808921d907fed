// Package display renders prediction output for the command line tools.
package display

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/yourusername/diamond-odds/internal/odds"
)

// GamePrediction is one scored matchup ready for display.
type GamePrediction struct {
	HomeTeam    string
	AwayTeam    string
	HomeWinProb float64
}

// RenderOddsTable writes the day's predictions as an aligned table with the
// home moneyline derived from the win probability.
func RenderOddsTable(w io.Writer, date time.Time, predictions []GamePrediction) error {
	if _, err := fmt.Fprintf(w, "MLB Odds for %s\n\n", date.Format("2006-01-02")); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Home\tAway\tHome Win %\tHome ML")

	for _, p := range predictions {
		line := odds.ProbToAmericanOdds(p.HomeWinProb)
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%s\n",
			p.HomeTeam, p.AwayTeam, p.HomeWinProb*100, odds.FormatMoneyline(line))
	}

	return tw.Flush()
}

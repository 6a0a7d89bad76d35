// Package report renders the final betting-edge table for human review.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/yourusername/strikeout-edge/internal/models"
	"github.com/yourusername/strikeout-edge/internal/scoring"
)

// EdgeTable writes the scored props as a console table, followed by the drop
// accounting: a reader must always see how many lines never made it.
func EdgeTable(out io.Writer, result *scoring.Result) {
	table := tablewriter.NewWriter(out)
	table.Header("Date", "Player", "Line", "Odds", "Imp%", "Pred SO", "Edge", "Call")

	for _, rec := range result.Predictions {
		table.Append(
			rec.GameDate.Format("2006-01-02"),
			rec.Player,
			fmt.Sprintf("%.1f", rec.Line),
			rec.Odds.String(),
			fmt.Sprintf("%.1f", ImpliedProbability(rec.Odds).InexactFloat64()*100),
			fmt.Sprintf("%.2f", rec.PredictedSO),
			fmt.Sprintf("%+.2f", rec.Edge),
			callLabel(rec.Recommendation),
		)
	}

	table.Render()

	fmt.Fprintf(out, "%d scored, %d dropped\n", len(result.Predictions), len(result.Dropped))
	for _, d := range result.Dropped {
		fmt.Fprintf(out, "  dropped %s (%s)\n", d.Prop.Player, d.Reason)
	}
}

// ImpliedProbability converts American odds to the book's implied win
// probability, vig included.
func ImpliedProbability(odds decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if odds.IsNegative() {
		abs := odds.Abs()
		return abs.Div(abs.Add(hundred))
	}
	if odds.IsZero() {
		return decimal.Zero
	}
	return hundred.Div(odds.Add(hundred))
}

func callLabel(r models.Recommendation) string {
	switch r {
	case models.RecommendOver:
		return "OVER"
	case models.RecommendUnder:
		return "UNDER"
	default:
		return "no bet"
	}
}

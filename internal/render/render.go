// Package render turns venue results into output lines. Building lines is pure; styling
// happens only in Printer.
package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

// Tag selects the color of the tagged part of a line.
type Tag int

const (
	// TagNone prints the tagged part uncolored.
	TagNone Tag = iota
	// TagOK prints the tagged part in green.
	TagOK
	// TagAttention prints the tagged part in red.
	TagAttention
)

// TagFor marks open entries as OK and everything else as needing attention.
func TagFor(status domain.Status) Tag {
	if status == domain.StatusOpen {
		return TagOK
	}
	return TagAttention
}

// Line is an output line whose Tagged prefix is colored by Tag.
type Line struct {
	Tag    Tag
	Tagged string
	Text   string
}

func plain(format string, args ...any) Line {
	return Line{Text: fmt.Sprintf(format, args...)}
}

// BalanceLines renders the balance breakdown of one token.
func BalanceLines(token string, b domain.Balance) []Line {
	return []Line{
		{Tag: TagOK, Tagged: token},
		plain("  free:          %s", b.Free.String()),
		plain("  used:          %s", b.Used.String()),
		plain("  non-deposited: %s", b.Nondeposited.String()),
	}
}

// OrderLines renders each order as "id >>> status" followed by its inputs.
func OrderLines(orders []domain.TraderOrder) []Line {
	lines := make([]Line, 0, 2*len(orders))
	for _, o := range orders {
		lines = append(lines,
			Line{Tag: TagFor(o.Status), Tagged: fmt.Sprintf("%s >>> %s", o.ID, o.Status)},
			plain("  %s %s volume %s at price %s",
				o.OrderInputs.Side, o.OrderInputs.Symbol, o.OrderInputs.Volume, o.OrderInputs.Price),
		)
	}
	return lines
}

// BalanceActionLines renders deposits and withdrawals with their age relative to now.
func BalanceActionLines(actions []domain.BalanceAction, now time.Time) []Line {
	lines := make([]Line, 0, len(actions))
	for _, a := range actions {
		lines = append(lines, Line{
			Tag:    TagFor(a.Status),
			Tagged: fmt.Sprintf("[%s]", a.Status),
			Text: fmt.Sprintf(" %s %s %s tx %s (%s)",
				a.Action, a.Amount.String(), a.Token, a.TxHash, Age(a.Time, now)),
		})
	}
	return lines
}

// Age is the human readable distance from t to now, e.g. "3 minutes ago".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

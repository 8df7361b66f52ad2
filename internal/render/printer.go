package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okColor        = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	attentionColor = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F5F"}
)

// Printer writes lines to out, coloring tagged parts when out is a color terminal.
type Printer struct {
	out       io.Writer
	ok        lipgloss.Style
	attention lipgloss.Style
}

// NewPrinter creates a Printer for out.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:       out,
		ok:        r.NewStyle().Foreground(okColor).Bold(true),
		attention: r.NewStyle().Foreground(attentionColor).Bold(true),
	}
}

// Print writes each line followed by a newline.
func (p *Printer) Print(lines ...Line) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(p.styled(l))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Success prints a single OK-tagged message.
func (p *Printer) Success(format string, args ...any) error {
	return p.Print(Line{Tag: TagOK, Tagged: fmt.Sprintf(format, args...)})
}

func (p *Printer) styled(l Line) string {
	if l.Tagged == "" {
		return l.Text
	}
	switch l.Tag {
	case TagOK:
		return p.ok.Render(l.Tagged) + l.Text
	case TagAttention:
		return p.attention.Render(l.Tagged) + l.Text
	default:
		return l.Tagged + l.Text
	}
}

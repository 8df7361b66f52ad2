package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

var (
	notifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}).
			Bold(true)
)

// Terminal asks questions on the controlling terminal.
type Terminal struct {
	in  *os.File
	out io.Writer
}

// NewTerminal returns a terminal Asker reading from stdin.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{in: os.Stdin, out: out}
}

// Ask implements Asker.
func (t *Terminal) Ask(label string) (string, error) {
	return t.run(label, huh.EchoModeNormal)
}

// AskSecret implements Asker.
func (t *Terminal) AskSecret(label string) (string, error) {
	return t.run(label, huh.EchoModePassword)
}

// Notify implements Asker.
func (t *Terminal) Notify(message string) {
	fmt.Fprintln(t.out, notifyStyle.Render(message))
}

func (t *Terminal) run(label string, mode huh.EchoMode) (string, error) {
	if !term.IsTerminal(int(t.in.Fd())) {
		return "", errors.New("stdin is not a terminal: run the command interactively")
	}

	var value string
	err := huh.NewInput().
		Title(label).
		EchoMode(mode).
		Value(&value).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", errors.Wrap(err, "read input")
	}

	return value, nil
}

// Package prompt collects passphrases and order parameters from the trader.
//
// The loops here are pure functions over an Asker so that they can be driven by a
// scripted answer sequence in tests and by the terminal in production.
package prompt

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrCancelled is returned when the trader interrupts a prompt.
var ErrCancelled = errors.New("cancelled by user")

const (
	labelPassword   = "Enter your password: "
	labelRepeat     = "Re-enter your password: "
	labelPrice      = "Enter the price: "
	labelVolume     = "Enter the volume: "
	mismatchMessage = "Passwords do not match, try again."
)

// Asker answers a single prompt.
type Asker interface {
	// Ask returns the trader's answer; input is echoed.
	Ask(label string) (string, error)
	// AskSecret returns the trader's answer without echoing it.
	AskSecret(label string) (string, error)
	// Notify shows a message between prompts.
	Notify(message string)
}

// CollectNew asks for a new passphrase and its confirmation until both entries are equal.
func CollectNew(a Asker) (string, error) {
	for {
		first, err := a.AskSecret(labelPassword)
		if err != nil {
			return "", err
		}
		second, err := a.AskSecret(labelRepeat)
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		a.Notify(mismatchMessage)
	}
}

// CollectExisting asks once for the passphrase of an existing keystore.
func CollectExisting(a Asker) (string, error) {
	return a.AskSecret(labelPassword)
}

// OrderInputs asks for the price and the volume of a new order.
func OrderInputs(a Asker) (price, volume string, err error) {
	price, err = a.Ask(labelPrice)
	if err != nil {
		return "", "", err
	}
	volume, err = a.Ask(labelVolume)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(price), strings.TrimSpace(volume), nil
}

// Package setup walks the trader through the optional settings file.
package setup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vadiminshakov/renexcli/config"
	"github.com/vadiminshakov/renexcli/internal/prompt"
)

// Run asks for every setting. An empty answer keeps the current value; an invalid one is
// asked again.
func Run(a prompt.Asker, current config.Config) (config.ConfigTmp, error) {
	network, err := askUntilValid(a,
		fmt.Sprintf("Network, testnet or mainnet [%s]: ", current.Network),
		current.Network, validateNetwork)
	if err != nil {
		return config.ConfigTmp{}, err
	}

	baseURL, err := askUntilValid(a,
		fmt.Sprintf("RPC base url [%s]: ", current.RPCBaseURL),
		current.RPCBaseURL, validateURL)
	if err != nil {
		return config.ConfigTmp{}, err
	}

	normalizeDefault := "n"
	if current.AutoNormalizeOrders {
		normalizeDefault = "y"
	}
	normalize, err := askUntilValid(a,
		fmt.Sprintf("Round order price and volume to what the venue accepts, y/n [%s]: ", normalizeDefault),
		normalizeDefault, validateYesNo)
	if err != nil {
		return config.ConfigTmp{}, err
	}

	autoNormalize := isYes(normalize)
	return config.ConfigTmp{
		Network:             strings.ToLower(network),
		RPCBaseURL:          baseURL,
		AutoNormalizeOrders: &autoNormalize,
	}, nil
}

func askUntilValid(a prompt.Asker, label, fallback string, validate func(string) error) (string, error) {
	for {
		answer, err := a.Ask(label)
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = fallback
		}
		if err := validate(answer); err != nil {
			a.Notify(err.Error())
			continue
		}
		return answer, nil
	}
}

func validateNetwork(s string) error {
	if !config.IsNetwork(s) {
		return fmt.Errorf("unknown network %q", s)
	}
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) url")
	}
	return nil
}

func validateYesNo(s string) error {
	switch strings.ToLower(s) {
	case "y", "yes", "n", "no":
		return nil
	}
	return fmt.Errorf("answer y or n")
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "y" || s == "yes"
}

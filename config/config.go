package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// FileName of the optional settings file inside the data dir.
	FileName = "config.yaml"

	defaultNetwork    = "testnet"
	defaultRPCBaseURL = "https://kovan.infura.io/"
)

// ErrInvalidSettings is returned when the settings file exists but cannot be used.
var ErrInvalidSettings = errors.New("invalid settings file")

var networks = map[string]bool{"testnet": true, "mainnet": true}

// IsNetwork reports whether name is a supported network.
func IsNetwork(name string) bool {
	return networks[strings.ToLower(name)]
}

// Config is the resolved configuration of one invocation.
type Config struct {
	// DataDir holds the keystore, the settings file and the history cache.
	DataDir             string
	Network             string
	RPCBaseURL          string
	InfuraKey           string
	AutoNormalizeOrders bool
}

// ConfigTmp is the settings file as written by the user.
type ConfigTmp struct {
	Network             string `yaml:"network,omitempty"`
	RPCBaseURL          string `yaml:"rpc_base_url,omitempty"`
	AutoNormalizeOrders *bool  `yaml:"auto_normalize_orders,omitempty"`
}

type env struct {
	InfuraKey string `envconfig:"INFURA_KEY"`
	Home      string `envconfig:"RENEX_CLI_HOME"`
}

// StorageDir is the history cache location.
func (c Config) StorageDir() string {
	return filepath.Join(c.DataDir, "data")
}

// Endpoint is the JSON-RPC url, the base url followed by the project key.
func (c Config) Endpoint() string {
	return c.RPCBaseURL + c.InfuraKey
}

// Defaults reads the environment only and fills in the default settings.
func Defaults() (Config, error) {
	var e env
	if err := envconfig.Process("", &e); err != nil {
		return Config{}, fmt.Errorf("failed to process env: %w", err)
	}

	dataDir := e.Home
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, errors.Wrap(err, "resolve home dir")
		}
		dataDir = filepath.Join(home, ".config", "renex-cli")
	}

	return Config{
		DataDir:             dataDir,
		Network:             defaultNetwork,
		RPCBaseURL:          defaultRPCBaseURL,
		InfuraKey:           e.InfuraKey,
		AutoNormalizeOrders: true,
	}, nil
}

// Get is Defaults overlaid with the optional settings file. Nothing is created on disk.
func Get() (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}

	tmp, err := getYaml(filepath.Join(cfg.DataDir, FileName))
	if err != nil {
		return Config{}, err
	}
	if tmp == nil {
		return cfg, nil
	}

	if tmp.Network != "" {
		network := strings.ToLower(tmp.Network)
		if !IsNetwork(network) {
			return Config{}, errors.Wrapf(ErrInvalidSettings, "incorrect 'network' param in yaml config: %s", tmp.Network)
		}
		cfg.Network = network
	}
	if tmp.RPCBaseURL != "" {
		cfg.RPCBaseURL = tmp.RPCBaseURL
	}
	if tmp.AutoNormalizeOrders != nil {
		cfg.AutoNormalizeOrders = *tmp.AutoNormalizeOrders
	}

	return cfg, nil
}

// getYaml returns nil when the settings file does not exist.
func getYaml(path string) (*ConfigTmp, error) {
	f, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return nil, errors.Wrapf(ErrInvalidSettings, "incorrect yaml config %s: %v", path, err)
	}
	return &tmp, nil
}

// Save writes tmp as the settings file of dir.
func Save(dir string, tmp ConfigTmp) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create data dir")
	}

	data, err := yaml.Marshal(tmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

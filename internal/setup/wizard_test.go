package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/renexcli/config"
	"github.com/vadiminshakov/renexcli/internal/prompt"
)

var current = config.Config{
	Network:             "testnet",
	RPCBaseURL:          "https://kovan.infura.io/",
	AutoNormalizeOrders: true,
}

func TestRun_KeepsDefaultsOnEmptyAnswers(t *testing.T) {
	script := prompt.NewScript("", "", "")

	tmp, err := Run(script, current)
	require.NoError(t, err)

	assert.Equal(t, "testnet", tmp.Network)
	assert.Equal(t, "https://kovan.infura.io/", tmp.RPCBaseURL)
	require.NotNil(t, tmp.AutoNormalizeOrders)
	assert.True(t, *tmp.AutoNormalizeOrders)
	assert.Empty(t, script.Messages)
}

func TestRun_ReasksInvalidAnswers(t *testing.T) {
	script := prompt.NewScript("ropsten", "MAINNET", "ftp://node", "https://mainnet.infura.io/v3/", "maybe", "n")

	tmp, err := Run(script, current)
	require.NoError(t, err)

	assert.Equal(t, "mainnet", tmp.Network)
	assert.Equal(t, "https://mainnet.infura.io/v3/", tmp.RPCBaseURL)
	require.NotNil(t, tmp.AutoNormalizeOrders)
	assert.False(t, *tmp.AutoNormalizeOrders)
	assert.Len(t, script.Messages, 3)
	assert.Zero(t, script.Remaining())
}

func TestRun_Cancelled(t *testing.T) {
	_, err := Run(prompt.NewScript("mainnet"), current)
	assert.ErrorIs(t, err, prompt.ErrScriptExhausted)
}

package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectNew(t *testing.T) {
	tests := []struct {
		name          string
		answers       []string
		expected      string
		expectedAsked int
	}{
		{name: "match on first pair", answers: []string{"secret", "secret"}, expected: "secret", expectedAsked: 2},
		{name: "retry until match", answers: []string{"a", "b", "c", "c"}, expected: "c", expectedAsked: 4},
		{name: "empty passphrase is accepted when confirmed", answers: []string{"", ""}, expected: "", expectedAsked: 2},
		{name: "byte equality", answers: []string{"pass", "pass ", "Pass", "pass", "pass", "pass"}, expected: "pass", expectedAsked: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := NewScript(tt.answers...)

			got, err := CollectNew(script)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Len(t, script.Labels, tt.expectedAsked)
			assert.Equal(t, 0, script.Remaining())
			assert.Len(t, script.Messages, tt.expectedAsked/2-1)
		})
	}
}

func TestCollectNew_AlternatesLabels(t *testing.T) {
	script := NewScript("a", "b", "c", "c")

	_, err := CollectNew(script)
	require.NoError(t, err)
	assert.Equal(t, []string{labelPassword, labelRepeat, labelPassword, labelRepeat}, script.Labels)
}

func TestCollectNew_Cancelled(t *testing.T) {
	cancelling := &cancelAfter{n: 3}

	_, err := CollectNew(cancelling)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 3, cancelling.asked)
}

func TestCollectNew_NeverReturnsWithoutMatch(t *testing.T) {
	script := NewScript("a", "b", "c", "d")

	_, err := CollectNew(script)
	assert.ErrorIs(t, err, ErrScriptExhausted)
}

func TestCollectExisting(t *testing.T) {
	script := NewScript("hunter2", "unused")

	got, err := CollectExisting(script)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
	assert.Equal(t, 1, script.Remaining())
}

func TestOrderInputs(t *testing.T) {
	script := NewScript(" 0.0005 ", "1000\n")

	price, volume, err := OrderInputs(script)
	require.NoError(t, err)
	assert.Equal(t, "0.0005", price)
	assert.Equal(t, "1000", volume)
	assert.Equal(t, []string{labelPrice, labelVolume}, script.Labels)

	_, _, err = OrderInputs(NewScript("1"))
	assert.ErrorIs(t, err, ErrScriptExhausted)
}

// cancelAfter answers with distinct values and reports ErrCancelled on prompt n.
type cancelAfter struct {
	n     int
	asked int
}

func (c *cancelAfter) Ask(label string) (string, error) { return c.AskSecret(label) }

func (c *cancelAfter) AskSecret(string) (string, error) {
	c.asked++
	if c.asked == c.n {
		return "", ErrCancelled
	}
	return string(rune('a' + c.asked)), nil
}

func (c *cancelAfter) Notify(string) {}

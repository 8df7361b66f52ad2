package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

func TestTagFor(t *testing.T) {
	tests := []struct {
		status domain.Status
		want   Tag
	}{
		{domain.StatusOpen, TagOK},
		{domain.StatusPending, TagAttention},
		{domain.StatusConfirmed, TagAttention},
		{domain.StatusDone, TagAttention},
		{domain.StatusCanceled, TagAttention},
		{domain.StatusFailed, TagAttention},
		{domain.StatusSettled, TagAttention},
		{domain.Status("unknown"), TagAttention},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TagFor(tt.status), tt.status)
	}
}

func TestOrderLines(t *testing.T) {
	orders := []domain.TraderOrder{
		{ID: "0x03", Status: domain.StatusOpen, OrderInputs: domain.OrderRequest{Symbol: "REN/ETH", Side: domain.SideBuy, Price: "0.001", Volume: "100"}},
		{ID: "0x01", Status: domain.StatusCanceled, OrderInputs: domain.OrderRequest{Symbol: "OMG/ETH", Side: domain.SideSell, Price: "0.02", Volume: "5"}},
		{ID: "0x02", Status: domain.StatusSettled},
	}

	lines := OrderLines(orders)
	require.Len(t, lines, 6)

	assert.Equal(t, "0x03 >>> open", lines[0].Tagged)
	assert.Equal(t, TagOK, lines[0].Tag)
	assert.Equal(t, "  buy REN/ETH volume 100 at price 0.001", lines[1].Text)
	assert.Equal(t, "0x01 >>> canceled", lines[2].Tagged)
	assert.Equal(t, TagAttention, lines[2].Tag)
	assert.Equal(t, "0x02 >>> settled", lines[4].Tagged)
}

func TestBalanceActionLines(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	actions := []domain.BalanceAction{{
		Action: domain.BalanceActionWithdraw,
		Token:  "ETH",
		Amount: decimal.RequireFromString("0.5"),
		TxHash: "0xabc",
		Status: domain.StatusDone,
		Time:   now.Add(-3 * time.Minute),
	}}

	lines := BalanceActionLines(actions, now)
	require.Len(t, lines, 1)
	assert.Equal(t, "[done]", lines[0].Tagged)
	assert.Equal(t, TagAttention, lines[0].Tag)
	assert.Equal(t, " withdraw 0.5 ETH tx 0xabc (3 minutes ago)", lines[0].Text)
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "3 minutes ago", Age(now.Add(-3*time.Minute), now))
	assert.Equal(t, "2 hours ago", Age(now.Add(-2*time.Hour), now))
	assert.Equal(t, "unknown time", Age(time.Time{}, now))
}

func TestPrinter_WritesPlainTextToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	b := domain.Balance{
		Free:         decimal.RequireFromString("1.25"),
		Used:         decimal.Zero,
		Nondeposited: decimal.NewFromInt(3),
	}
	require.NoError(t, p.Print(BalanceLines("ETH", b)...))
	require.NoError(t, p.Success("done"))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Equal(t, []string{
		"ETH",
		"  free:          1.25",
		"  used:          0",
		"  non-deposited: 3",
		"done",
	}, strings.Split(strings.TrimSuffix(out, "\n"), "\n"))
}

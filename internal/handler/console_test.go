package handler

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewConsole(strings.NewReader(input), out, false), out
}

func TestPromptKeepsSurroundingSpaces(t *testing.T) {
	c, out := newTestConsole(" 1001 \r\nlast")

	line, err := c.Prompt("Account Number")
	require.NoError(t, err)
	assert.Equal(t, " 1001 ", line)
	assert.Equal(t, "Account Number: ", out.String())

	line, err = c.Prompt("PIN")
	require.NoError(t, err)
	assert.Equal(t, "last", line, "final line without newline is still read")

	_, err = c.Prompt("PIN")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptSecretFallsBackToLineInput(t *testing.T) {
	c, _ := newTestConsole("s3cret\n")

	secret, err := c.PromptSecret("PIN")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
	assert.NoError(t, c.Restore())
}

func TestMenu(t *testing.T) {
	c, out := newTestConsole("2\n9\nabc\n")
	options := []string{"Login", "Create Account", "Quit"}

	choice, err := c.Menu("ATM System", options)
	require.NoError(t, err)
	assert.Equal(t, 2, choice)
	assert.Contains(t, out.String(), "=== ATM System ===")
	assert.Contains(t, out.String(), "  2) Create Account\n")

	for i := 0; i < 2; i++ {
		choice, err = c.Menu("ATM System", options)
		require.NoError(t, err)
		assert.Equal(t, 0, choice)
	}
	assert.Contains(t, out.String(), "Please choose a number between 1 and 3.")
}

func TestPromptAmount(t *testing.T) {
	c, out := newTestConsole("100\n$40.5\n\nten\n")

	amount, ok, err := c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, amount.Equal(decimal.NewFromInt(100)))

	amount, ok, err = c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, amount.Equal(decimal.RequireFromString("40.5")))

	_, ok, err = c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.False(t, ok, "blank cancels")
	assert.NotContains(t, out.String(), "valid number")

	_, ok, err = c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "[Deposit]\n  Please enter a valid number.\n")
}

func TestPromptAmountRejectsOutOfRangeInput(t *testing.T) {
	rejected := []string{"1e50000000", "1e-50000000", "1.005", "1234567890123456", "0.001"}
	c, out := newTestConsole(strings.Join(rejected, "\n") + "\n1e3\n123456789012345.99\n-5\n")

	for _, raw := range rejected {
		_, ok, err := c.PromptAmount("Deposit", "Enter deposit amount")
		require.NoError(t, err)
		assert.False(t, ok, raw)
	}
	assert.Equal(t, len(rejected), strings.Count(out.String(), "Amounts are limited to 15 digits and 2 decimal places."))

	amount, ok, err := c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, amount.Equal(decimal.NewFromInt(1000)))

	amount, ok, err = c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "123456789012345.99", amount.String())

	amount, ok, err = c.PromptAmount("Deposit", "Enter deposit amount")
	require.NoError(t, err)
	assert.True(t, ok, "sign is checked by the session, not the prompt")
	assert.True(t, amount.Equal(decimal.NewFromInt(-5)))
}

func TestDialogsRenderEachLine(t *testing.T) {
	c, out := newTestConsole("")

	c.ShowInfo("Transactions", "Deposited: $100\nWithdrew: $40")
	c.ShowError("Error", "Invalid credentials.")

	assert.Equal(t,
		"\n[Transactions]\n  Deposited: $100\n  Withdrew: $40\n"+
			"\n[Error]\n  Invalid credentials.\n",
		out.String())
}

package handler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const (
	maxAmountScale  = 2
	maxAmountDigits = 15
)

// Console renders screens and dialogs on a line-oriented terminal. When the
// input is a real terminal, secrets are read without echo.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	tty    *os.File
	state  *term.State
	header *color.Color
	info   *color.Color
	fail   *color.Color
	prompt *color.Color
}

func NewConsole(in io.Reader, out io.Writer, colors bool) *Console {
	c := &Console{
		in:     bufio.NewReader(in),
		out:    out,
		header: color.New(color.FgCyan, color.Bold),
		info:   color.New(color.FgGreen, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
		prompt: color.New(color.FgYellow),
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.tty = f
		if state, err := term.GetState(int(f.Fd())); err == nil {
			c.state = state
		}
	}

	for _, col := range []*color.Color{c.header, c.info, c.fail, c.prompt} {
		if colors {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// Restore puts the terminal back the way NewConsole found it.
func (c *Console) Restore() error {
	if c.tty == nil || c.state == nil {
		return nil
	}
	return term.Restore(int(c.tty.Fd()), c.state)
}

func (c *Console) Heading(text string) {
	fmt.Fprintln(c.out)
	c.header.Fprintf(c.out, "=== %s ===", text)
	fmt.Fprintln(c.out)
}

// Prompt reads one line. Only the line terminator is stripped; account
// numbers and PINs are compared verbatim.
func (c *Console) Prompt(label string) (string, error) {
	c.prompt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptSecret reads a line without echo when attached to a terminal.
func (c *Console) PromptSecret(label string) (string, error) {
	if c.tty == nil {
		return c.Prompt(label)
	}

	c.prompt.Fprintf(c.out, "%s: ", label)
	secret, err := term.ReadPassword(int(c.tty.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Menu shows numbered options and returns the chosen one (1-based). An
// out-of-range or non-numeric answer shows an error and returns 0.
func (c *Console) Menu(title string, options []string) (int, error) {
	c.Heading(title)
	for i, option := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, option)
	}

	answer, err := c.Prompt("Select an option")
	if err != nil {
		return 0, err
	}

	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || choice < 1 || choice > len(options) {
		c.ShowError("Error", fmt.Sprintf("Please choose a number between 1 and %d.", len(options)))
		return 0, nil
	}
	return choice, nil
}

// PromptAmount asks for a money amount. ok is false when the prompt was left
// blank or the input was not a number; the latter also shows an error.
func (c *Console) PromptAmount(title, label string) (amount decimal.Decimal, ok bool, err error) {
	raw, err := c.Prompt(label)
	if err != nil {
		return decimal.Zero, false, err
	}

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	if raw == "" {
		return decimal.Zero, false, nil
	}

	amount, err = decimal.NewFromString(raw)
	if err != nil {
		c.ShowError(title, "Please enter a valid number.")
		return decimal.Zero, false, nil
	}
	if !withinAmountLimits(amount) {
		c.ShowError(title, fmt.Sprintf("Amounts are limited to %d digits and %d decimal places.", maxAmountDigits, maxAmountScale))
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

// withinAmountLimits only inspects exponent and digit count, so inputs such
// as 1e50000000 are rejected without being expanded.
func withinAmountLimits(amount decimal.Decimal) bool {
	exp := int(amount.Exponent())
	if exp < -maxAmountScale || exp > maxAmountDigits {
		return false
	}
	return amount.NumDigits()+exp <= maxAmountDigits
}

func (c *Console) ShowInfo(title, message string) {
	c.dialog(c.info, title, message)
}

func (c *Console) ShowError(title, message string) {
	c.dialog(c.fail, title, message)
}

func (c *Console) dialog(col *color.Color, title, message string) {
	fmt.Fprintln(c.out)
	col.Fprintf(c.out, "[%s]", title)
	fmt.Fprintln(c.out)
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintf(c.out, "  %s\n", line)
	}
}

package handler

import (
	"atm-accounts/internal/errors"
)

const unexpectedErrorMessage = "An unexpected error occurred."

// writeError shows err in an error dialog. Only AppError messages reach the
// screen; anything else is reported generically.
func writeError(c *Console, title string, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.ShowError(title, appErr.Message)
		return
	}
	c.ShowError(title, unexpectedErrorMessage)
}

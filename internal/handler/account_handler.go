package handler

import (
	"atm-accounts/internal/domain"
	"atm-accounts/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	console        *Console
}

func NewAccountHandler(accountService *service.AccountService, console *Console) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		console:        console,
	}
}

var createAccountMenu = []string{"Enter Account Details", "Back"}

// CreateAccount runs the account creation screen. Any account number is
// accepted, the empty one included. Only input errors are returned.
func (h *AccountHandler) CreateAccount() error {
	choice, err := h.console.Menu("Create Account", createAccountMenu)
	if err != nil || choice != 1 {
		return err
	}

	accountNumber, err := h.console.Prompt("New Account Number")
	if err != nil {
		return err
	}

	pin, err := h.console.PromptSecret("Set PIN")
	if err != nil {
		return err
	}

	if _, err := h.accountService.CreateAccount(accountNumber, pin); err != nil {
		writeError(h.console, "Error", err)
		return nil
	}

	h.console.ShowInfo("Success", service.AccountCreatedMessage)
	return nil
}

// Login prompts for credentials and returns the opened session, or nil when
// authentication failed (the failure has been shown already).
func (h *AccountHandler) Login() (*domain.Session, error) {
	h.console.Heading("Login")

	accountNumber, err := h.console.Prompt("Account Number")
	if err != nil {
		return nil, err
	}

	pin, err := h.console.PromptSecret("PIN")
	if err != nil {
		return nil, err
	}

	session, err := h.accountService.Authenticate(accountNumber, pin)
	if err != nil {
		writeError(h.console, "Error", err)
		return nil, nil
	}
	return session, nil
}

package handler

import (
	"atm-accounts/internal/domain"
	"atm-accounts/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
	console            *Console
}

func NewTransactionHandler(transactionService *service.TransactionService, console *Console) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		console:            console,
	}
}

func (h *TransactionHandler) ShowBalance(session *domain.Session) {
	h.console.ShowInfo("Balance", h.transactionService.Balance(session))
}

func (h *TransactionHandler) ShowTransactions(session *domain.Session) {
	h.console.ShowInfo("Transactions", h.transactionService.History(session))
}

// Deposit prompts for an amount; a blank answer cancels.
func (h *TransactionHandler) Deposit(session *domain.Session) error {
	amount, ok, err := h.console.PromptAmount("Deposit", "Enter deposit amount")
	if err != nil || !ok {
		return err
	}

	message, err := h.transactionService.Deposit(session, amount)
	if err != nil {
		writeError(h.console, "Deposit", err)
		return nil
	}

	h.console.ShowInfo("Deposit", message)
	return nil
}

// Withdraw prompts for an amount; a blank answer cancels.
func (h *TransactionHandler) Withdraw(session *domain.Session) error {
	amount, ok, err := h.console.PromptAmount("Withdraw", "Enter withdrawal amount")
	if err != nil || !ok {
		return err
	}

	message, err := h.transactionService.Withdraw(session, amount)
	if err != nil {
		writeError(h.console, "Withdraw", err)
		return nil
	}

	h.console.ShowInfo("Withdraw", message)
	return nil
}

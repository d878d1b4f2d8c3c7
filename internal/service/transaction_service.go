package service

import (
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"atm-accounts/internal/domain"
)

// TransactionService applies balance operations to a session and persists
// every successful one through the AccountService.
type TransactionService struct {
	accounts *AccountService
	logger   *slog.Logger
}

func NewTransactionService(accounts *AccountService, logger *slog.Logger) *TransactionService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TransactionService{
		accounts: accounts,
		logger:   logger,
	}
}

func (s *TransactionService) Deposit(session *domain.Session, amount decimal.Decimal) (string, error) {
	s.logger.Info("Processing deposit",
		"account_number", session.AccountNumber,
		"session_id", session.ID,
		"amount", amount)

	return s.apply(session, "deposit", func() (string, error) {
		return session.Deposit(amount)
	})
}

func (s *TransactionService) Withdraw(session *domain.Session, amount decimal.Decimal) (string, error) {
	s.logger.Info("Processing withdrawal",
		"account_number", session.AccountNumber,
		"session_id", session.ID,
		"amount", amount)

	return s.apply(session, "withdrawal", func() (string, error) {
		return session.Withdraw(amount)
	})
}

// apply runs op and persists the result. A rejected op leaves storage alone;
// a failed save rolls the session back so it never shows unsaved money.
func (s *TransactionService) apply(session *domain.Session, name string, op func() (string, error)) (string, error) {
	before := session.Record()

	message, err := op()
	if err != nil {
		s.logger.Warn("Transaction rejected",
			"operation", name,
			"account_number", session.AccountNumber,
			"session_id", session.ID,
			"error", err)
		return "", err
	}

	if err := s.accounts.UpdateAccount(session); err != nil {
		session.Restore(before)
		return "", err
	}

	s.logger.Info("Transaction completed",
		"operation", name,
		"account_number", session.AccountNumber,
		"session_id", session.ID,
		"new_balance", session.Balance)
	return message, nil
}

func (s *TransactionService) Balance(session *domain.Session) string {
	return session.BalanceMessage()
}

// History renders the transaction log one entry per line.
func (s *TransactionService) History(session *domain.Session) string {
	entries := session.ViewTransactions()
	if len(entries) == 0 {
		return domain.NoTransactionsMessage
	}
	return strings.Join(entries, "\n")
}

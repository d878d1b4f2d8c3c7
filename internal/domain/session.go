package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atm-accounts/internal/errors"
)

// Session is the in-memory view of one authenticated account. It is not safe
// for concurrent use; one session belongs to one terminal.
type Session struct {
	ID            uuid.UUID
	AccountNumber string
	Balance       decimal.Decimal

	credential   string
	transactions []string
}

// NewSession opens a session over a copy of record.
func NewSession(record *AccountRecord) *Session {
	cp := record.Clone()
	return &Session{
		ID:            uuid.New(),
		AccountNumber: cp.AccountNumber,
		Balance:       cp.Balance,
		credential:    cp.PIN,
		transactions:  cp.Transactions,
	}
}

// Deposit adds amount to the balance. Non-positive amounts are rejected
// without touching the balance or the log.
func (s *Session) Deposit(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", errors.ErrInvalidDeposit
	}

	s.Balance = s.Balance.Add(amount)
	s.transactions = append(s.transactions, TransactionEntry(KindDeposit, amount))
	return fmt.Sprintf("Deposit successful! New balance: %s", FormatMoney(s.Balance)), nil
}

// Withdraw removes amount from the balance. A non-positive amount and an
// amount above the balance are rejected with the same error.
func (s *Session) Withdraw(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() || amount.GreaterThan(s.Balance) {
		return "", errors.ErrInvalidWithdrawal
	}

	s.Balance = s.Balance.Sub(amount)
	s.transactions = append(s.transactions, TransactionEntry(KindWithdrawal, amount))
	return fmt.Sprintf("Withdrawal successful! New balance: %s", FormatMoney(s.Balance)), nil
}

func (s *Session) CheckBalance() decimal.Decimal {
	return s.Balance
}

// BalanceMessage renders CheckBalance for a dialog.
func (s *Session) BalanceMessage() string {
	return fmt.Sprintf("Your current balance is: %s", FormatMoney(s.Balance))
}

// ViewTransactions returns a copy of the log in insertion order. An empty
// result means the account has no transactions yet.
func (s *Session) ViewTransactions() []string {
	out := make([]string, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Record converts the session back into the record the store persists.
func (s *Session) Record() *AccountRecord {
	return &AccountRecord{
		AccountNumber: s.AccountNumber,
		PIN:           s.credential,
		Balance:       s.Balance,
		Transactions:  s.ViewTransactions(),
	}
}

// Restore resets balance and log to record, discarding changes that could
// not be persisted.
func (s *Session) Restore(record *AccountRecord) {
	cp := record.Clone()
	s.Balance = cp.Balance
	s.transactions = cp.Transactions
}

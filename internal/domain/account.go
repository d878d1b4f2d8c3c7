package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRecord is the persisted state of one account number.
type AccountRecord struct {
	AccountNumber string
	PIN           string
	Balance       decimal.Decimal
	Transactions  []string
}

// NewAccountRecord returns a fresh record with a zero balance and an empty log.
func NewAccountRecord(accountNumber, pin string) *AccountRecord {
	return &AccountRecord{
		AccountNumber: accountNumber,
		PIN:           pin,
		Balance:       decimal.Zero,
		Transactions:  []string{},
	}
}

// Clone returns a deep copy so callers never share the transaction slice.
func (a *AccountRecord) Clone() *AccountRecord {
	transactions := make([]string, len(a.Transactions))
	copy(transactions, a.Transactions)
	return &AccountRecord{
		AccountNumber: a.AccountNumber,
		PIN:           a.PIN,
		Balance:       a.Balance,
		Transactions:  transactions,
	}
}

type AccountRepository interface {
	CreateAccount(account *AccountRecord) error
	GetAccount(accountNumber string) (*AccountRecord, error)
	UpdateAccount(account *AccountRecord) error
}

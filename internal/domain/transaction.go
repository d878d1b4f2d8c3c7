package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit    TransactionKind = "Deposited"
	KindWithdrawal TransactionKind = "Withdrew"
)

// NoTransactionsMessage is shown instead of an empty transaction log.
const NoTransactionsMessage = "No transactions found."

// FormatMoney renders an amount the way it appears in the log and in dialogs: "$100", "$40.5".
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.String()
}

// TransactionEntry renders one line of the transaction log.
func TransactionEntry(kind TransactionKind, amount decimal.Decimal) string {
	return fmt.Sprintf("%s: %s", kind, FormatMoney(amount))
}

package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"atm-accounts/internal/domain"
	"atm-accounts/internal/errors"
)

// accountRepository reads and writes rows of the accounts table. The
// transaction log lives in account_transactions; see transactionRepository.
type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func newAccountRepository(db SQLExecutor, logger *slog.Logger) *accountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.AccountRecord) error {
	query := `
		INSERT INTO accounts (account_number, pin, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	_, err := r.db.Exec(
		query,
		account.AccountNumber,
		account.PIN,
		account.Balance.String(),
		now,
		now,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate account creation attempt", "account_number", account.AccountNumber)
				return errors.ErrDuplicateAccount
			}
		}
		r.logger.Error("Failed to create account", "account_number", account.AccountNumber, "error", err)
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	r.logger.Info("Account row created", "account_number", account.AccountNumber)
	return nil
}

func (r *accountRepository) GetAccount(accountNumber string) (*domain.AccountRecord, error) {
	query := `
		SELECT account_number, pin, balance
		FROM accounts WHERE account_number = $1
	`

	return r.scanAccount(query, accountNumber)
}

func (r *accountRepository) GetAccountForUpdate(accountNumber string) (*domain.AccountRecord, error) {
	query := `
		SELECT account_number, pin, balance
		FROM accounts WHERE account_number = $1 FOR UPDATE
	`

	return r.scanAccount(query, accountNumber)
}

func (r *accountRepository) scanAccount(query string, accountNumber string) (*domain.AccountRecord, error) {
	var account domain.AccountRecord
	var balanceStr string

	err := r.db.QueryRow(query, accountNumber).Scan(
		&account.AccountNumber,
		&account.PIN,
		&balanceStr,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Debug("Account not found", "account_number", accountNumber)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "account_number", accountNumber, "error", err)
		return nil, errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "account_number", accountNumber, "balance_str", balanceStr, "error", err)
		return nil, errors.ErrMalformedAccountData.WithDetails(err.Error())
	}

	account.Balance = balance
	account.Transactions = []string{}
	return &account, nil
}

// UpdateAccount overwrites pin and balance. The log is appended separately.
func (r *accountRepository) UpdateAccount(account *domain.AccountRecord) error {
	query := `
		UPDATE accounts
		SET pin = $1, balance = $2, updated_at = $3
		WHERE account_number = $4
	`

	result, err := r.db.Exec(query, account.PIN, account.Balance.String(), time.Now(), account.AccountNumber)
	if err != nil {
		r.logger.Error("Failed to update account", "account_number", account.AccountNumber, "error", err)
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_number", account.AccountNumber)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Account balance updated", "account_number", account.AccountNumber, "new_balance", account.Balance)
	return nil
}

package repository

import (
	"database/sql"
	"log/slog"

	"atm-accounts/internal/domain"
	"atm-accounts/internal/errors"
)

// Store is the Postgres-backed account store. It implements
// domain.AccountRepository on top of the accounts and account_transactions
// tables and offers a unit of work through WithTransaction.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

var _ domain.AccountRepository = (*Store)(nil)

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = discardLogger()
	}
	return &Store{
		executor: db,
		logger:   logger,
	}
}

func (s *Store) accounts() *accountRepository {
	return newAccountRepository(s.executor, s.logger)
}

func (s *Store) transactions() *transactionRepository {
	return newTransactionRepository(s.executor, s.logger)
}

// WithTransaction executes a function within a database transaction
func (s *Store) WithTransaction(fn func(*Store) error) error {
	// Only sql.DB can begin transactions
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.NewAppError(errors.InternalError, "cannot begin a nested transaction")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	txStore := &Store{
		executor: tx,
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return nil
}

func (s *Store) CreateAccount(account *domain.AccountRecord) error {
	return s.WithTransaction(func(tx *Store) error {
		if err := tx.accounts().CreateAccount(account); err != nil {
			return err
		}
		for i, entry := range account.Transactions {
			if err := tx.transactions().AppendEntry(account.AccountNumber, i, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetAccount(accountNumber string) (*domain.AccountRecord, error) {
	account, err := s.accounts().GetAccount(accountNumber)
	if err != nil {
		return nil, err
	}

	entries, err := s.transactions().ListEntries(accountNumber)
	if err != nil {
		return nil, err
	}
	account.Transactions = entries
	return account, nil
}

// UpdateAccount overwrites pin and balance and appends the log entries the
// database has not seen yet. Entries already stored are never rewritten.
func (s *Store) UpdateAccount(account *domain.AccountRecord) error {
	return s.WithTransaction(func(tx *Store) error {
		if _, err := tx.accounts().GetAccountForUpdate(account.AccountNumber); err != nil {
			return err
		}

		stored, err := tx.transactions().CountEntries(account.AccountNumber)
		if err != nil {
			return err
		}
		if stored > len(account.Transactions) {
			s.logger.Error("Refusing to shrink transaction log",
				"account_number", account.AccountNumber,
				"stored", stored,
				"given", len(account.Transactions))
			return errors.NewAppErrorf(errors.InternalError,
				"transaction log for account %s is append-only: %d entries stored, %d given",
				account.AccountNumber, stored, len(account.Transactions))
		}

		if err := tx.accounts().UpdateAccount(account); err != nil {
			return err
		}

		for seq := stored; seq < len(account.Transactions); seq++ {
			if err := tx.transactions().AppendEntry(account.AccountNumber, seq, account.Transactions[seq]); err != nil {
				return err
			}
		}
		return nil
	})
}

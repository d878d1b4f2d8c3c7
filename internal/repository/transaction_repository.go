package repository

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"atm-accounts/internal/errors"
)

// transactionRepository stores the per-account log, one row per entry,
// ordered by seq.
type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func newTransactionRepository(db SQLExecutor, logger *slog.Logger) *transactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) AppendEntry(accountNumber string, seq int, entry string) error {
	query := `
		INSERT INTO account_transactions (id, account_number, seq, entry, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, uuid.New(), accountNumber, seq, entry, time.Now())
	if err != nil {
		r.logger.Error("Failed to append transaction entry",
			"account_number", accountNumber,
			"seq", seq,
			"error", err)
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	return nil
}

func (r *transactionRepository) ListEntries(accountNumber string) ([]string, error) {
	query := `
		SELECT entry FROM account_transactions
		WHERE account_number = $1
		ORDER BY seq
	`

	rows, err := r.db.Query(query, accountNumber)
	if err != nil {
		r.logger.Error("Failed to list transaction entries", "account_number", accountNumber, "error", err)
		return nil, errors.ErrStorageUnavailable.WithDetails(err.Error())
	}
	defer rows.Close()

	entries := []string{}
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, errors.ErrStorageUnavailable.WithDetails(err.Error())
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	return entries, nil
}

func (r *transactionRepository) CountEntries(accountNumber string) (int, error) {
	query := `SELECT COUNT(*) FROM account_transactions WHERE account_number = $1`

	var count int
	if err := r.db.QueryRow(query, accountNumber).Scan(&count); err != nil {
		r.logger.Error("Failed to count transaction entries", "account_number", accountNumber, "error", err)
		return 0, errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	return count, nil
}

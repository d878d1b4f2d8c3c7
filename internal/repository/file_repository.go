package repository

import (
	"bytes"
	"encoding/json"
	goerrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"atm-accounts/internal/domain"
	"atm-accounts/internal/errors"
)

// accountDocument is the on-disk shape of one account, keyed by account
// number in the enclosing JSON object.
type accountDocument struct {
	PIN          string      `json:"pin"`
	Balance      json.Number `json:"balance"`
	Transactions []string    `json:"transactions"`
}

// FileAccountRepository keeps every account in memory and rewrites the whole
// JSON file after each mutation. It does not lock the file against other
// processes.
type FileAccountRepository struct {
	mu       sync.Mutex
	path     string
	accounts map[string]*domain.AccountRecord
	logger   *slog.Logger
}

var _ domain.AccountRepository = (*FileAccountRepository)(nil)

// NewFileAccountRepository loads path. A missing file is an empty store; a
// malformed one is an error.
func NewFileAccountRepository(path string, logger *slog.Logger) (*FileAccountRepository, error) {
	if logger == nil {
		logger = discardLogger()
	}

	r := &FileAccountRepository{
		path:   path,
		logger: logger,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileAccountRepository) Path() string {
	return r.path
}

func (r *FileAccountRepository) load() error {
	r.accounts = make(map[string]*domain.AccountRecord)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if goerrors.Is(err, fs.ErrNotExist) {
			r.logger.Info("No account data file, starting empty", "path", r.path)
			return nil
		}
		r.logger.Error("Failed to read account data", "path", r.path, "error", err)
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	var docs map[string]accountDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		r.logger.Error("Failed to parse account data", "path", r.path, "error", err)
		return errors.ErrMalformedAccountData.WithDetails(err.Error())
	}

	for number, doc := range docs {
		balance := decimal.Zero
		if doc.Balance != "" {
			balance, err = decimal.NewFromString(doc.Balance.String())
			if err != nil {
				r.logger.Error("Failed to parse balance", "account_number", number, "balance_str", doc.Balance, "error", err)
				return errors.ErrMalformedAccountData.WithDetails(err.Error())
			}
		}

		transactions := doc.Transactions
		if transactions == nil {
			transactions = []string{}
		}

		r.accounts[number] = &domain.AccountRecord{
			AccountNumber: number,
			PIN:           doc.PIN,
			Balance:       balance,
			Transactions:  transactions,
		}
	}

	r.logger.Info("Account data loaded", "path", r.path, "accounts", len(r.accounts))
	return nil
}

func (r *FileAccountRepository) CreateAccount(account *domain.AccountRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.AccountNumber]; ok {
		r.logger.Warn("Duplicate account creation attempt", "account_number", account.AccountNumber)
		return errors.ErrDuplicateAccount
	}

	r.accounts[account.AccountNumber] = account.Clone()
	if err := r.persist(); err != nil {
		delete(r.accounts, account.AccountNumber)
		return err
	}

	r.logger.Info("Account created successfully", "account_number", account.AccountNumber)
	return nil
}

func (r *FileAccountRepository) GetAccount(accountNumber string) (*domain.AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountNumber]
	if !ok {
		r.logger.Debug("Account not found", "account_number", accountNumber)
		return nil, errors.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (r *FileAccountRepository) UpdateAccount(account *domain.AccountRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.accounts[account.AccountNumber]
	if !ok {
		r.logger.Warn("No account found to update", "account_number", account.AccountNumber)
		return errors.ErrAccountNotFound
	}

	r.accounts[account.AccountNumber] = account.Clone()
	if err := r.persist(); err != nil {
		r.accounts[account.AccountNumber] = previous
		return err
	}

	r.logger.Info("Account balance updated", "account_number", account.AccountNumber, "new_balance", account.Balance)
	return nil
}

// persist rewrites the whole mapping. Callers hold r.mu.
func (r *FileAccountRepository) persist() error {
	docs := make(map[string]accountDocument, len(r.accounts))
	for number, account := range r.accounts {
		transactions := account.Transactions
		if transactions == nil {
			transactions = []string{}
		}
		docs[number] = accountDocument{
			PIN:          account.PIN,
			Balance:      json.Number(account.Balance.String()),
			Transactions: transactions,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(docs); err != nil {
		return errors.NewAppError(errors.InternalError, "failed to encode account data").WithDetails(err.Error())
	}

	if err := writeFileAtomic(r.path, buf.Bytes()); err != nil {
		r.logger.Error("Failed to save account data", "path", r.path, "error", err)
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so a crash mid-write leaves the previous file intact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

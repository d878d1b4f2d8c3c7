package repository

import (
	"encoding/json"
	goerrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atm-accounts/internal/domain"
	"atm-accounts/internal/errors"
)

func newFileRepo(t *testing.T) (*FileAccountRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atmaccount.json")
	repo, err := NewFileAccountRepository(path, nil)
	require.NoError(t, err)
	return repo, path
}

func readDocs(t *testing.T, path string) map[string]map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &docs))
	return docs
}

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	repo, path := newFileRepo(t)

	_, err := repo.GetAccount("1001")
	assert.True(t, goerrors.Is(err, errors.ErrAccountNotFound))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading must not create the file")
}

func TestFileRepositoryCreatePersists(t *testing.T) {
	repo, path := newFileRepo(t)

	require.NoError(t, repo.CreateAccount(domain.NewAccountRecord("1001", "2222")))

	docs := readDocs(t, path)
	require.Contains(t, docs, "1001")
	assert.Equal(t, "2222", docs["1001"]["pin"])
	assert.Equal(t, float64(0), docs["1001"]["balance"])
	assert.Equal(t, []any{}, docs["1001"]["transactions"])
}

func TestFileRepositoryDuplicateLeavesRecordUnchanged(t *testing.T) {
	repo, path := newFileRepo(t)

	original := domain.NewAccountRecord("1001", "2222")
	original.Balance = decimal.NewFromInt(50)
	original.Transactions = []string{"Deposited: $50"}
	require.NoError(t, repo.CreateAccount(original))

	err := repo.CreateAccount(domain.NewAccountRecord("1001", "9999"))
	assert.True(t, goerrors.Is(err, errors.ErrDuplicateAccount))

	got, err := repo.GetAccount("1001")
	require.NoError(t, err)
	assert.Equal(t, "2222", got.PIN)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{"Deposited: $50"}, got.Transactions)
	assert.Equal(t, "2222", readDocs(t, path)["1001"]["pin"])
}

func TestFileRepositoryUpdateAndReload(t *testing.T) {
	repo, path := newFileRepo(t)
	require.NoError(t, repo.CreateAccount(domain.NewAccountRecord("1001", "2222")))

	record, err := repo.GetAccount("1001")
	require.NoError(t, err)
	record.Balance = decimal.RequireFromString("60.5")
	record.Transactions = append(record.Transactions, "Deposited: $100.5", "Withdrew: $40")
	require.NoError(t, repo.UpdateAccount(record))

	reloaded, err := NewFileAccountRepository(path, nil)
	require.NoError(t, err)
	got, err := reloaded.GetAccount("1001")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("60.5")))
	assert.Equal(t, []string{"Deposited: $100.5", "Withdrew: $40"}, got.Transactions)
}

func TestFileRepositoryUpdateUnknownAccount(t *testing.T) {
	repo, _ := newFileRepo(t)

	err := repo.UpdateAccount(domain.NewAccountRecord("404", "0000"))
	assert.True(t, goerrors.Is(err, errors.ErrAccountNotFound))
}

func TestFileRepositoryReturnsCopies(t *testing.T) {
	repo, _ := newFileRepo(t)
	require.NoError(t, repo.CreateAccount(domain.NewAccountRecord("1001", "2222")))

	got, err := repo.GetAccount("1001")
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(1000)
	got.Transactions = append(got.Transactions, "Deposited: $1000")

	again, err := repo.GetAccount("1001")
	require.NoError(t, err)
	assert.True(t, again.Balance.IsZero())
	assert.Empty(t, again.Transactions)
}

func TestFileRepositoryLoadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atmaccount.json")
	legacy := `{
    "1001": {
        "pin": "2222",
        "balance": 60.0,
        "transactions": [
            "Deposited: $100.0",
            "Withdrew: $40.0"
        ]
    },
    "2002": {
        "pin": "abcd",
        "balance": 0,
        "transactions": []
    }
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	repo, err := NewFileAccountRepository(path, nil)
	require.NoError(t, err)

	got, err := repo.GetAccount("1001")
	require.NoError(t, err)
	assert.Equal(t, "2222", got.PIN)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, []string{"Deposited: $100.0", "Withdrew: $40.0"}, got.Transactions)

	other, err := repo.GetAccount("2002")
	require.NoError(t, err)
	assert.True(t, other.Balance.IsZero())
}

func TestFileRepositoryMalformedFileIsFatal(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"1001": `,
		"empty":          ``,
		"bad balance":    `{"1001": {"pin": "1", "balance": "lots", "transactions": []}}`,
		"wrong top type": `["1001"]`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "atmaccount.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			repo, err := NewFileAccountRepository(path, nil)
			assert.Nil(t, repo)
			assert.True(t, goerrors.Is(err, errors.ErrMalformedAccountData), "got %v", err)
		})
	}
}

func TestFileRepositoryRollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atmaccount.json")
	repo, err := NewFileAccountRepository(path, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateAccount(domain.NewAccountRecord("1001", "2222")))

	// Point the repository at a directory that does not exist.
	repo.path = filepath.Join(dir, "missing", "atmaccount.json")

	err = repo.CreateAccount(domain.NewAccountRecord("3003", "1111"))
	assert.True(t, goerrors.Is(err, errors.ErrStorageUnavailable))
	_, err = repo.GetAccount("3003")
	assert.True(t, goerrors.Is(err, errors.ErrAccountNotFound))

	record, err := repo.GetAccount("1001")
	require.NoError(t, err)
	record.Balance = decimal.NewFromInt(10)
	err = repo.UpdateAccount(record)
	assert.True(t, goerrors.Is(err, errors.ErrStorageUnavailable))

	unchanged, err := repo.GetAccount("1001")
	require.NoError(t, err)
	assert.True(t, unchanged.Balance.IsZero())
}

func TestFileRepositoryLeavesNoTempFiles(t *testing.T) {
	repo, path := newFileRepo(t)
	require.NoError(t, repo.CreateAccount(domain.NewAccountRecord("1001", "2222")))
	require.NoError(t, repo.CreateAccount(domain.NewAccountRecord("1002", "3333")))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "atmaccount.json", entries[0].Name())
}

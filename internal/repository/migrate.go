package repository

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"atm-accounts/internal/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations that are not yet recorded in
// schema_migrations, each in its own transaction, in file name order.
func (s *Store) Migrate() error {
	if _, err := s.executor.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return errors.ErrStorageUnavailable.WithDetails(err.Error())
	}

	migrationFiles, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	sort.Slice(migrationFiles, func(i, j int) bool {
		return migrationFiles[i].Name() < migrationFiles[j].Name()
	})

	for _, file := range migrationFiles {
		name := file.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		var applied bool
		if err := s.executor.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name,
		).Scan(&applied); err != nil {
			return errors.ErrStorageUnavailable.WithDetails(err.Error())
		}
		if applied {
			s.logger.Debug("Migration already applied", "version", name)
			continue
		}

		migrationSQL, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = s.WithTransaction(func(tx *Store) error {
			if _, err := tx.executor.Exec(string(migrationSQL)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if _, err := tx.executor.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("Migration failed", "version", name, "error", err)
			return err
		}

		s.logger.Info("Migration applied", "version", name)
	}

	return nil
}

package store

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// The migration system is intentionally small: a fresh database is
// initialized from migration/{driver}/LATEST.sql, and demo mode additionally
// applies the seed files under seed/{driver} in lexical order.

//go:embed migration
var migrationFS embed.FS

//go:embed seed
var seedFS embed.FS

// LatestSchemaFileName is the full schema file applied to new installations.
const LatestSchemaFileName = "LATEST.sql"

// Migrate initializes the database schema when needed and seeds demo data.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}
	if initialized {
		return nil
	}

	if err := s.applyLatestSchema(ctx); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	slog.Info("database schema initialized", "driver", s.profile.Driver)

	if s.profile.Mode == "demo" {
		if err := s.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed demo data")
		}
		slog.Info("demo data seeded")
	}
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	schemaPath := filepath.Join("migration", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(schemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema %q", schemaPath)
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to execute schema statement")
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	seedDir := filepath.Join("seed", s.profile.Driver)
	entries, err := fs.ReadDir(seedFS, seedDir)
	if err != nil {
		return errors.Wrapf(err, "failed to read seed directory %q", seedDir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		buf, err := seedFS.ReadFile(filepath.Join(seedDir, name))
		if err != nil {
			return errors.Wrapf(err, "failed to read seed file %q", name)
		}
		if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to execute seed file %q", name)
		}
	}
	return nil
}

package db

import (
	"context"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	_ "github.com/Stevekk11/Evidence-psich-spolku/internal/db/migrations"
)

// DefaultMigrationsDir is where the registered Go migrations live, relative
// to the repository root.
const DefaultMigrationsDir = "internal/db/migrations"

// Migrate runs all registered migrations against the database behind dsn.
// dir must point at the migrations source directory; tests resolve it via
// runtime.Caller, the binaries pass DefaultMigrationsDir.
func Migrate(ctx context.Context, dsn, dir string) error {
	if dsn == "" {
		return errors.New("empty dsn provided")
	}
	if dir == "" {
		dir = DefaultMigrationsDir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return goose.UpContext(ctx, sqlDB, dir)
}

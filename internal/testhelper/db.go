package testhelper

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/db"
	"gorm.io/gorm"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB starts a shared PostgreSQL container (once per test run),
// applies migrations, and returns fresh GORM and pgx handles. Both are
// released via t.Cleanup; the container lives until the process exits.
// Skipped under -short so the suite runs without Docker.
func SetupTestDB(t *testing.T) (*gorm.DB, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	once.Do(func() {
		sharedDSN, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orm, err := db.Connect(ctx, sharedDSN)
	if err != nil {
		t.Fatalf("testhelper: failed to open gorm: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(orm)
	})

	pool, err := db.OpenPool(ctx, sharedDSN)
	if err != nil {
		t.Fatalf("testhelper: failed to create pgxpool: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
	})

	return orm, pool
}

func startContainerAndMigrate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("connection string: %w", err)
	}

	if err := db.Migrate(ctx, dsn, migrationsPath()); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}

	return dsn, nil
}

// migrationsPath resolves internal/db/migrations relative to this source
// file so tests work regardless of the working directory.
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "db", "migrations")
}

// Package integration exercises the repositories and services against a
// real PostgreSQL instance managed by testcontainers.
package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// One container per test binary for the shared path.
var (
	sharedMu  sync.Mutex
	sharedCtr testcontainers.Container
	sharedDSN string
)

// TestDB bundles a migrated database connection with the container that
// backs it.
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

func startPostgres(t *testing.T, dbName string) (testcontainers.Container, string) {
	t.Helper()

	ctr, err := tcpostgres.Run(context.Background(),
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "postgres container did not start")

	dsn, err := ctr.ConnectionString(context.Background(), "sslmode=disable")
	require.NoError(t, err, "container connection string")
	return ctr, dsn
}

// NewTestDB boots a dedicated container for one test. Slow but fully
// isolated; prefer NewSharedTestDB for tests that scope their data to a
// fresh tenant.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctr, dsn := startPostgres(t, "square15_test")
	db, sqlDB := openGorm(t, dsn)
	applyMigrations(t, sqlDB)

	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: ctr, DSN: dsn, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// NewSharedTestDB hands out a connection to a package-wide container,
// starting it and applying migrations on first use. Each caller gets its
// own connection; the container itself outlives the test.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCtr == nil {
		ctr, dsn := startPostgres(t, "square15_shared_test")

		_, sqlDB := openGorm(t, dsn)
		applyMigrations(t, sqlDB)
		sqlDB.Close()

		sharedCtr = ctr
		sharedDSN = dsn
	}

	db, sqlDB := openGorm(t, sharedDSN)
	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: sharedCtr, DSN: sharedDSN, t: t}
	t.Cleanup(func() {
		if tdb.SqlDB != nil {
			tdb.SqlDB.Close()
		}
	})
	return tdb
}

// Close releases the connection and, for dedicated containers, tears the
// container down. The shared container is left running.
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}
	if tdb.Container != nil && tdb.Container != sharedCtr {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("terminate container: %v", err)
		}
	}
}

// CleanupSharedContainer stops the shared container. Call it from
// TestMain after m.Run.
func CleanupSharedContainer() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCtr == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sharedCtr.Terminate(ctx)
	sharedCtr = nil
	sharedDSN = ""
}

// CleanTables truncates every public table except the migration ledger.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "list tables")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("truncate %s: %v", table, err)
		}
	}
}

func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), cfg)
	require.NoError(t, err, "open gorm connection")

	sqlDB, err := db.DB()
	require.NoError(t, err, "unwrap sql.DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	dir := locateMigrations()
	require.NotEmpty(t, dir, "migrations directory not found")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(t, err, "migrate instance")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err, "apply migrations")
	}
}

// locateMigrations walks up from this file, then from the working
// directory, until it finds the migrations folder.
func locateMigrations() string {
	if _, filename, _, ok := runtime.Caller(0); ok {
		dir := filepath.Dir(filename)
		for i := 0; i < 5; i++ {
			candidate := filepath.Join(dir, "migrations")
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			dir = filepath.Dir(dir)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, rel := range []string{"migrations", "../migrations", "../../migrations"} {
		candidate := filepath.Join(wd, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// SeedTenant inserts a tenant row. Nearly every table carries a
// tenant_id foreign key, so tests create one of these first.
func (tdb *TestDB) SeedTenant(tenantID uuid.UUID, code, name string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO tenants (id, created_at, updated_at, version, code, name, status, currency, timezone)
		VALUES (?, NOW(), NOW(), 1, ?, ?, 'active', 'ZAR', 'Africa/Johannesburg')
		ON CONFLICT DO NOTHING
	`, tenantID, code, name).Error
	require.NoError(tdb.t, err, "seed tenant")
}

// SeedRandomTenant seeds a tenant whose code and name derive from the ID,
// giving each test its own isolation boundary on the shared container.
func (tdb *TestDB) SeedRandomTenant(tenantID uuid.UUID) {
	tdb.t.Helper()

	short := tenantID.String()[:8]
	tdb.SeedTenant(tenantID, "TEST-"+short, "Test Properties "+short)
}

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/square15/backend/internal/infrastructure/config"
	"github.com/square15/backend/internal/infrastructure/logger"
	"github.com/square15/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	migrationsPath = resolveMigrationsPath(migrationsPath, log)

	log.Info("Migration tool invoked",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// create and list work on the filesystem only.
	switch command {
	case "create":
		runCreate(args[1:], migrationsPath, log)
		return
	case "list":
		runList(migrationsPath, log)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Open database connection", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Build migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Apply migrations", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Roll back migrations", zap.Error(err))
		}

	case "step":
		n := intArg(args, 1, "Step count required. Usage: migrate step <n>", log)
		if err := m.Steps(n); err != nil {
			log.Fatal("Step migrations", zap.Error(err))
		}

	case "goto":
		v := intArg(args, 1, "Version required. Usage: migrate goto <version>", log)
		if v < 0 {
			log.Fatal("Version must not be negative", zap.Int("version", v))
		}
		if err := m.GoTo(uint(v)); err != nil {
			log.Fatal("Migrate to version", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Read schema version", zap.Error(err))
		}
		if version == 0 {
			log.Info("Schema is empty, no migrations applied")
		} else {
			log.Info("Schema version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		v := intArg(args, 1, "Version required. Usage: migrate force <version>", log)
		log.Warn("Forcing migration version, use with caution")
		if err := m.Force(v); err != nil {
			log.Fatal("Force schema version", zap.Error(err))
		}

	case "drop":
		if !hasConfirmFlag(args[1:]) {
			log.Fatal("Refusing to drop without -confirm")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop database objects", zap.Error(err))
		}

	default:
		log.Error("Unrecognized command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to the directory
// two levels above the executable (the repo root when running a built
// binary from bin/).
func resolveMigrationsPath(path string, log *zap.Logger) string {
	if path == "" {
		if _, err := os.Stat(defaultMigrationsPath); err == nil {
			path = defaultMigrationsPath
		} else if execPath, err := os.Executable(); err == nil {
			candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
		if path == "" {
			path = defaultMigrationsPath
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		log.Fatal("Resolve migrations path", zap.Error(err))
	}
	return abs
}

func runCreate(args []string, migrationsPath string, log *zap.Logger) {
	if len(args) < 1 {
		log.Fatal("A migration name is required: migrate create <name> [description]")
	}
	name := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(migrationsPath, name, description)
	if err != nil {
		log.Fatal("Scaffold migration", zap.Error(err))
	}

	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
}

func runList(migrationsPath string, log *zap.Logger) {
	migrations, err := migration.ListMigrations(migrationsPath)
	if err != nil {
		log.Fatal("List migrations", zap.Error(err))
	}

	if len(migrations) == 0 {
		log.Info("No migrations on disk")
		return
	}

	log.Info("Migrations on disk", zap.Int("count", len(migrations)))
	for _, m := range migrations {
		fmt.Println("  -", m)
	}
}

func intArg(args []string, idx int, usage string, log *zap.Logger) int {
	if len(args) <= idx {
		log.Fatal(usage)
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		log.Fatal("Invalid number", zap.String("value", args[idx]))
	}
	return n
}

func hasConfirmFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Println(`Square 15 Properties Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Run every migration not yet applied
  down                  Undo every applied migration
  step <n>              Move n migrations forward, or backward when negative
  goto <version>        Migrate the schema to an exact version
  version               Print the schema version and dirty flag
  force <version>       Overwrite the recorded version without migrating
  drop -confirm         Remove every object in the database (DANGEROUS)
  create <name> [desc]  Scaffold an up/down migration file pair
  list                  Print the migrations found on disk

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     debug, info, warn or error (default: info)

Environment:
  S15_DATABASE_HOST, S15_DATABASE_PORT, S15_DATABASE_USER,
  S15_DATABASE_PASSWORD, S15_DATABASE_DBNAME, S15_DATABASE_SSLMODE

Examples:
  # Bring the schema up to date
  migrate up

  # Undo the most recent migration
  migrate step -1

  # Scaffold a migration pair
  migrate create add_registrations_table "Registrations with unit and billing fields"

  # Inspect the schema version
  migrate version`)
}

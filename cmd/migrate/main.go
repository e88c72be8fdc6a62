package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fibermade/backend/internal/infrastructure/config"
	"github.com/fibermade/backend/internal/infrastructure/logger"
	"github.com/fibermade/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const usage = `Fibermade schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative n rolls back)
  goto <version>        Migrate to a specific version
  version               Show the current schema version
  force <version>       Overwrite the recorded version (repairs dirty state)
  drop --confirm        Drop every database object (destroys all data)
  create <name> [desc]  Write a new up/down SQL pair
  list                  List the migration pairs on disk

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml or FIBERMADE_DATABASE_* variables
(HOST, PORT, USER, PASSWORD, DBNAME, SSLMODE).`

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(dir, flag.Args(), log); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func run(dir string, args []string, log *zap.Logger) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	command := args[0]

	// create and list work on the files alone
	switch command {
	case "create":
		return runCreate(dir, args[1:], log)
	case "list":
		return runList(dir, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	mg, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer mg.Close()

	switch command {
	case "up":
		return mg.Up()
	case "down":
		return mg.Down()
	case "step":
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return mg.Steps(n)
	case "goto":
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("goto: version must not be negative")
		}
		return mg.GoTo(uint(v))
	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied yet")
			return nil
		}
		log.Info("Current schema version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return nil
	case "force":
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return mg.Force(v)
	case "drop":
		if len(args) < 2 || (args[1] != "--confirm" && args[1] != "-confirm") {
			return fmt.Errorf("drop destroys all data, rerun as: migrate drop --confirm")
		}
		return mg.Drop()
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runCreate(dir string, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("create needs a name: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration pair created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func runList(dir string, log *zap.Logger) error {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		log.Info("No migrations found", zap.String("path", dir))
		return nil
	}
	log.Info("Migrations on disk", zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println(" ", name)
	}
	return nil
}

func intArg(args []string, usageHint string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("missing argument: migrate %s", usageHint)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("argument %q is not a number", args[1])
	}
	return n, nil
}

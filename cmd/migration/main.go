package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

type command struct {
	usage string
	run   func(m migrator, args []string, out io.Writer, log *logging.Logger) error
}

var commands = map[string]command{
	"up": {
		usage: "up",
		run: func(m migrator, _ []string, _ io.Writer, log *logging.Logger) error {
			if err := ignoreNoChange(m.Up(), log); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	},
	"down": {
		usage: "down [steps]",
		run: func(m migrator, args []string, _ io.Writer, log *logging.Logger) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Steps(-steps), log); err != nil {
				return fmt.Errorf("roll back %d: %w", steps, err)
			}
			log.Info("migrations rolled back", "steps", steps)
			return nil
		},
	},
	"version": {
		usage: "version",
		run: func(m migrator, _ []string, out io.Writer, _ *logging.Logger) error {
			version, dirty, err := m.Version()
			switch {
			case errors.Is(err, migrate.ErrNilVersion):
				_, _ = fmt.Fprintln(out, "version: none\ndirty: false")
				return nil
			case err != nil:
				return fmt.Errorf("read version: %w", err)
			}
			_, _ = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
			return nil
		},
	},
	"force": {
		usage: "force <version>",
		run: func(m migrator, args []string, _ io.Writer, log *logging.Logger) error {
			version, err := parseVersion(args)
			if err != nil {
				return err
			}
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			log.Info("forced migration version", "version", version)
			return nil
		},
	},
	"goto": {
		usage: "goto <version>",
		run: func(m migrator, args []string, _ io.Writer, log *logging.Logger) error {
			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Migrate(target), log); err != nil {
				return fmt.Errorf("migrate to %d: %w", target, err)
			}
			log.Info("migrated to version", "version", target)
			return nil
		},
	},
}

var errUsage = errors.New("usage")

func main() {
	log := logging.NewJSON(logging.LevelInfo).Named("migration")
	defer func() { _ = log.Sync() }()

	err := run(os.Args[1:], os.Stdout, log, openMigrator)
	switch {
	case errors.Is(err, errUsage):
		if err != errUsage {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		printUsage(os.Stderr)
		os.Exit(2)
	case err != nil:
		log.Error("migration failed", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, log *logging.Logger, open func(*logging.Logger) (migrator, func(), error)) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(args[0]))]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	m, closeFn, err := open(log)
	if err != nil {
		return err
	}
	defer closeFn()
	return cmd.run(m, args[1:], out, log)
}

func openMigrator(log *logging.Logger) (migrator, func(), error) {
	dbCfg, err := config.LoadDB()
	if err != nil {
		return nil, nil, fmt.Errorf("load db config: %w", err)
	}
	dir, err := resolveMigrationsDir()
	if err != nil {
		return nil, nil, err
	}

	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, dbCfg.ConnectionURL())
	if err != nil {
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	log.Info("migrator ready", "source", source)

	return m, func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			log.Warn("close migrator failed", "error", err)
		}
	}, nil
}

func ignoreNoChange(err error, log *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no migration changes")
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("%w: down steps must be a positive integer, got %q", errUsage, args[0])
	}
	return steps, nil
}

func parseVersion(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: force requires a version", errUsage)
	}
	version, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || version < -1 {
		return 0, fmt.Errorf("%w: invalid version %q", errUsage, args[0])
	}
	return version, nil
}

func parseTarget(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: goto requires a target version", errUsage)
	}
	target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid target version %q", errUsage, args[0])
	}
	return uint(target), nil
}

// resolveMigrationsDir returns the first existing directory among
// MIGRATIONS_DIR, ./db/migrations and /app/db/migrations.
func resolveMigrationsDir() (string, error) {
	candidates := []string{os.Getenv("MIGRATIONS_DIR"), "db/migrations", "/app/db/migrations"}
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("migrations directory not found: set MIGRATIONS_DIR")
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	_, _ = fmt.Fprintf(w, "usage: %s <command> [args]\n\ncommands:\n", name)
	for _, key := range []string{"up", "down", "version", "force", "goto"} {
		_, _ = fmt.Fprintf(w, "  %s\n", commands[key].usage)
	}
}

package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(sourceURL string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	MigrationsTable string
	Logger          Logger
}

// State describes the schema version recorded in the migrations table.
type State struct {
	Version uint
	Dirty   bool
	Applied bool
}

type session struct {
	m      migrator
	dir    string
	cfg    Config
	closer sync.Once
}

func (s *session) close() {
	s.closer.Do(func() {
		srcErr, dbErr := s.m.Close()
		if s.cfg.Logger == nil {
			return
		}
		if srcErr != nil {
			s.cfg.Logger.Warn("Migrations source close error", "error", srcErr)
		}
		if dbErr != nil {
			s.cfg.Logger.Warn("Migrations db close error", "error", dbErr)
		}
	})
}

func open(ctx context.Context, db *sql.DB, cfg Config) (*session, error) {
	if db == nil {
		return nil, fmt.Errorf("migrations: db is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "migrations"
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps the file:// URL valid on Windows.
	sourceURL := (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return nil, fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(sourceURL, driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: init: %w", err)
	}

	return &session{m: m, dir: absDir, cfg: cfg}, nil
}

// Up applies every pending migration in cfg.Dir.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := open(ctx, db, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("Running SQL migrations", "dir", s.dir, "table", s.cfg.MigrationsTable)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing interrupts it.
		s.close()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			if s.cfg.Logger != nil {
				s.cfg.Logger.Info("No migrations to apply")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("Migrations applied successfully")
	}
	return nil
}

// CurrentVersion reads the schema version without applying anything.
func CurrentVersion(ctx context.Context, db *sql.DB, cfg Config) (State, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := open(ctx, db, cfg)
	if err != nil {
		return State{}, err
	}
	defer s.close()

	version, dirty, err := s.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("migrations: version: %w", err)
	}

	return State{Version: version, Dirty: dirty, Applied: true}, nil
}

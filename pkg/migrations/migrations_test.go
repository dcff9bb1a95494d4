package migrations

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(string, ...any) {}

type fakeMigrator struct {
	upErr      error
	version    uint
	dirty      bool
	versionErr error
	closeErr   error
	closed     atomic.Int32
}

func (m *fakeMigrator) Up() error { return m.upErr }

func (m *fakeMigrator) Version() (uint, bool, error) {
	return m.version, m.dirty, m.versionErr
}

func (m *fakeMigrator) Close() (error, error) {
	m.closed.Add(1)
	return nil, m.closeErr
}

// hangingMigrator blocks in Up until Close is called, like a migration waiting on a lock.
type hangingMigrator struct {
	release chan struct{}
	once    sync.Once
	closed  atomic.Bool
}

func (m *hangingMigrator) Up() error {
	<-m.release
	return nil
}

func (m *hangingMigrator) Version() (uint, bool, error) { return 0, false, nil }

func (m *hangingMigrator) Close() (error, error) {
	m.once.Do(func() {
		m.closed.Store(true)
		close(m.release)
	})
	return nil, nil
}

type factoryCalls struct {
	sourceURL string
	table     string
	opened    atomic.Bool
}

func stubFactories(t *testing.T, m migrator, initErr error) *factoryCalls {
	t.Helper()

	origDriver, origMigrator := driverFactory, migratorFactory
	t.Cleanup(func() {
		driverFactory, migratorFactory = origDriver, origMigrator
	})

	calls := &factoryCalls{}
	driverFactory = func(_ *sql.DB, cfg Config) (database.Driver, error) {
		calls.opened.Store(true)
		calls.table = cfg.MigrationsTable
		return nil, nil
	}
	migratorFactory = func(sourceURL string, _ database.Driver) (migrator, error) {
		calls.sourceURL = sourceURL
		if initErr != nil {
			return nil, initErr
		}
		return m, nil
	}
	return calls
}

func TestUp_AppliesAndLogs(t *testing.T) {
	fake := &fakeMigrator{}
	calls := stubFactories(t, fake, nil)
	logger := &recordingLogger{}

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger})

	require.NoError(t, err)
	assert.Contains(t, logger.infos, "Migrations applied successfully")
	assert.Equal(t, "schema_migrations", calls.table)
	assert.Equal(t, int32(1), fake.closed.Load())
}

func TestUp_NoChangeIsNotAnError(t *testing.T) {
	stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)
	logger := &recordingLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
	assert.Contains(t, logger.infos, "No migrations to apply")
}

func TestUp_Errors(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		assert.Error(t, Up(context.Background(), nil, Config{}))
	})

	t.Run("migration failure is wrapped", func(t *testing.T) {
		stubFactories(t, &fakeMigrator{upErr: errors.New("syntax error at or near")}, nil)

		err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
		assert.ErrorContains(t, err, "migrations: up")
	})

	t.Run("init failure is wrapped", func(t *testing.T) {
		stubFactories(t, nil, errors.New("no such file"))

		err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
		assert.ErrorContains(t, err, "migrations: init")
	})

	t.Run("close errors are logged", func(t *testing.T) {
		stubFactories(t, &fakeMigrator{closeErr: errors.New("conn reset")}, nil)
		logger := &recordingLogger{}

		require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
		assert.Contains(t, logger.warns, "Migrations db close error")
	})
}

func TestUp_CancelledContext(t *testing.T) {
	t.Run("before opening", func(t *testing.T) {
		calls := stubFactories(t, &fakeMigrator{}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, calls.opened.Load())
	})

	t.Run("while running closes the migrator", func(t *testing.T) {
		hanging := &hangingMigrator{release: make(chan struct{})}
		stubFactories(t, hanging, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, hanging.closed.Load())
	})
}

func TestUp_SourceURLEscapesPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "camp migrations #1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	calls := stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: dir, MigrationsTable: "camp_schema"}))

	parsed, err := url.Parse(calls.sourceURL)
	require.NoError(t, err)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, "file", parsed.Scheme)
	assert.Equal(t, filepath.ToSlash(abs), parsed.Path)
	assert.Equal(t, "camp_schema", calls.table)
}

func TestCurrentVersion(t *testing.T) {
	t.Run("nothing applied", func(t *testing.T) {
		stubFactories(t, &fakeMigrator{versionErr: migrate.ErrNilVersion}, nil)

		state, err := CurrentVersion(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, State{}, state)
	})

	t.Run("dirty version", func(t *testing.T) {
		stubFactories(t, &fakeMigrator{version: 3, dirty: true}, nil)

		state, err := CurrentVersion(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, State{Version: 3, Dirty: true, Applied: true}, state)
	})

	t.Run("read failure", func(t *testing.T) {
		stubFactories(t, &fakeMigrator{versionErr: errors.New("relation missing")}, nil)

		_, err := CurrentVersion(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
		assert.ErrorContains(t, err, "migrations: version")
	})
}

var migrationFile = regexp.MustCompile(`^(\d{6})_[a-z_]+\.(up|down)\.sql$`)

// The shipped migrations must be numbered without gaps and come in up/down pairs.
func TestShippedMigrationsArePaired(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)

	directions := map[string][]string{}
	for _, e := range entries {
		m := migrationFile.FindStringSubmatch(e.Name())
		require.NotNil(t, m, "unexpected file %s", e.Name())
		directions[m[1]] = append(directions[m[1]], m[2])
	}

	versions := make([]string, 0, len(directions))
	for v := range directions {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	require.NotEmpty(t, versions)
	for i, v := range versions {
		assert.ElementsMatch(t, []string{"up", "down"}, directions[v], "version %s", v)
		n, err := strconv.Atoi(v)
		require.NoError(t, err)
		assert.Equal(t, i+1, n, "version numbers must be contiguous")
	}
}

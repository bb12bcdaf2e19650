package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

type fakeMigrator struct {
	calls   []string
	err     error
	version uint
	dirty   bool
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps:"+strconv.Itoa(n))
	return f.err
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.calls = append(f.calls, "migrate:"+strconv.Itoa(int(version)))
	return f.err
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force:"+strconv.Itoa(version))
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.err
}

func runWith(t *testing.T, m *fakeMigrator, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out, logging.NewNop(), func(*logging.Logger) (migrator, func(), error) {
		return m, func() { m.calls = append(m.calls, "close") }, nil
	})
	return out.String(), err
}

func TestRun_Commands(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCalls []string
	}{
		{name: "up", args: []string{"up"}, wantCalls: []string{"up", "close"}},
		{name: "down default", args: []string{"down"}, wantCalls: []string{"steps:-1", "close"}},
		{name: "down steps", args: []string{"DOWN", " 3 "}, wantCalls: []string{"steps:-3", "close"}},
		{name: "force", args: []string{"force", "4"}, wantCalls: []string{"force:4", "close"}},
		{name: "goto", args: []string{"goto", "2"}, wantCalls: []string{"migrate:2", "close"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &fakeMigrator{}
			_, err := runWith(t, m, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCalls, m.calls)
		})
	}
}

func TestRun_NoChangeIsNotAnError(t *testing.T) {
	_, err := runWith(t, &fakeMigrator{err: migrate.ErrNoChange}, "up")
	assert.NoError(t, err)
}

func TestRun_Version(t *testing.T) {
	out, err := runWith(t, &fakeMigrator{version: 3, dirty: true}, "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 3\ndirty: true\n", out)

	out, err = runWith(t, &fakeMigrator{err: migrate.ErrNilVersion}, "version")
	require.NoError(t, err)
	assert.Equal(t, "version: none\ndirty: false\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		args      []string
		wantCalls []string
	}{
		{args: nil},
		{args: []string{"sideways"}},
		{args: []string{"down", "0"}, wantCalls: []string{"close"}},
		{args: []string{"down", "abc"}, wantCalls: []string{"close"}},
		{args: []string{"force"}, wantCalls: []string{"close"}},
		{args: []string{"force", "-2"}, wantCalls: []string{"close"}},
		{args: []string{"goto", "-1"}, wantCalls: []string{"close"}},
	}
	for _, tc := range tests {
		m := &fakeMigrator{}
		_, err := runWith(t, m, tc.args...)
		assert.ErrorIs(t, err, errUsage, "%v", tc.args)
		assert.Equal(t, tc.wantCalls, m.calls, "%v", tc.args)
	}
}

func TestRun_MigratorFailure(t *testing.T) {
	_, err := runWith(t, &fakeMigrator{err: errors.New("dirty database version 3")}, "up")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "dirty database version 3")
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("MIGRATIONS_DIR", dir)

		got, err := resolveMigrationsDir()
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})

	t.Run("files are skipped", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		t.Setenv("MIGRATIONS_DIR", file)
		t.Chdir(t.TempDir())

		_, err := resolveMigrationsDir()
		assert.Error(t, err)
	})
}

package iocache

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/huangsam/scanreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationDirs(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		dir, err := migrationDir(backend)
		require.NoError(t, err)
		ups, err := fs.Glob(dir, "*.up.sql")
		require.NoError(t, err)
		downs, err := fs.Glob(dir, "*.down.sql")
		require.NoError(t, err)
		assert.Len(t, ups, 2, "backend %s", backend)
		assert.Len(t, downs, 2, "backend %s", backend)
	}
	_, err := migrationDir(schema.NoneBackend)
	assert.Error(t, err)
}

func TestMigrateHistoryNoneBackend(t *testing.T) {
	_, err := MigrateHistory(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateHistorySQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	res, err := MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(2), res.ToVersion)

	res, err = MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, uint(2), res.ToVersion)

	res, err = MigrateHistory(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(2), res.FromVersion)
	assert.Equal(t, uint(1), res.ToVersion)

	res, err = MigrateHistory(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(0), res.ToVersion)

	_, err = MigrateHistory(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	// A migrated database is usable by the store
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.BeginRun(testTime(), "/a.zip", "d", nil)
	assert.NoError(t, err)
}

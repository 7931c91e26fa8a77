package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclellan/stocktalk/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "stocktalk.db")
	db, err := Open(path, logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocktalk.db")

	db, err := Open(path, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-run applied migrations.
	db, err = Open(path, logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestPrefsThemeUnset(t *testing.T) {
	prefs := NewPrefs(testDB(t))

	_, ok := prefs.Theme()
	assert.False(t, ok)
}

func TestPrefsThemeRoundTrip(t *testing.T) {
	prefs := NewPrefs(testDB(t))

	require.NoError(t, prefs.SetTheme(true))
	dark, ok := prefs.Theme()
	assert.True(t, ok)
	assert.True(t, dark)

	require.NoError(t, prefs.SetTheme(false))
	dark, ok = prefs.Theme()
	assert.True(t, ok)
	assert.False(t, dark)
}

func TestPrefsThemePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocktalk.db")

	db, err := Open(path, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, NewPrefs(db).SetTheme(true))
	require.NoError(t, db.Close())

	db, err = Open(path, logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	dark, ok := NewPrefs(db).Theme()
	assert.True(t, ok)
	assert.True(t, dark)
}

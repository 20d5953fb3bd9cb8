package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteDSNInMemory(t *testing.T) {
	for _, path := range []string{"", ":memory:", " :MEMORY: "} {
		dsn, err := sqliteDSN(path)
		require.NoError(t, err)
		require.Contains(t, dsn, ":memory:")
		require.Contains(t, dsn, "cache=shared")
	}
}

func TestSQLiteDSNCreatesParentDirectory(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "nested", "app.sqlite")

	dsn, err := sqliteDSN(path)
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(base, "nested"))
	require.Contains(t, dsn, "_journal_mode=WAL")
	require.Contains(t, dsn, "_busy_timeout=5000")
}

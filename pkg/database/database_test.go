package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := Config{Path: filepath.Join(t.TempDir(), "nested", "clawledge.db")}
	db := MustOpen(cfg, zaptest.NewLogger(t))
	defer db.Close()

	// applying twice is a no-op
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('cases','submissions')`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestDefaultConfigEnvOverride(t *testing.T) {
	t.Setenv("CLAWLEDGE_DB_PATH", "/tmp/x.db")
	assert.Equal(t, "/tmp/x.db", DefaultConfig().Path)
}

package bootstrap

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"medical-appointment-api/config"
	"medical-appointment-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionOptions(t *testing.T) {
	t.Run("postgres runs serializable", func(t *testing.T) {
		opts := transactionOptions(config.DriverPostgres)
		require.Len(t, opts, 1)
		assert.Equal(t, sql.LevelSerializable, opts[0].Isolation)
	})

	t.Run("sqlite uses driver default", func(t *testing.T) {
		assert.Nil(t, transactionOptions(config.DriverSQLite))
	})
}

func TestOpenDatabase(t *testing.T) {
	log := logger.New("error", io.Discard)

	t.Run("sqlite", func(t *testing.T) {
		db, err := openDatabase(config.DBConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "appointments.db"),
		}, log)
		require.NoError(t, err)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
		assert.NoError(t, sqlDB.Ping())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		db, err := openDatabase(config.DBConfig{Driver: "mysql"}, log)
		assert.Nil(t, db)
		assert.ErrorContains(t, err, `unsupported database driver "mysql"`)
	})
}

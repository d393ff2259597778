package repository

import (
	"testing"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: memoryPath})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

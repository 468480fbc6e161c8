package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bakery-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestAutoMigrateCreatesEnabledTables(t *testing.T) {
	utils.SilenceLogger()
	db := openDB(t)

	require.NoError(t, AutoMigrate(db, Options{Documents: true, LocalIdentity: true}))

	for _, table := range []string{"documents", "document_changes", "local_storage", "users"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestAutoMigrateSkipsDisabledTables(t *testing.T) {
	utils.SilenceLogger()
	db := openDB(t)

	require.NoError(t, AutoMigrate(db, Options{LocalIdentity: true}))

	assert.True(t, db.Migrator().HasTable("users"))
	assert.False(t, db.Migrator().HasTable("documents"))
}

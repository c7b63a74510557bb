package storage

import (
	"testing"

	"hoops_signup/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	pg, err := Dialector(config.Config{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", pg.Name())

	my, err := Dialector(config.Config{DBDriver: "mysql"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", my.Name())

	_, err = Dialector(config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	for _, table := range []string{"users", "schedules", "sign_ups", "guest_sign_ups", "waitlist_notifications", "password_reset_tokens", "schedule_events"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	// running twice is harmless
	require.NoError(t, Migrate(db))
}

func TestInitRedis_Disabled(t *testing.T) {
	assert.Nil(t, InitRedis(config.Config{}, zap.NewNop()))
}

package database

import (
	"testing"

	"medical-appointment-api/config"
	"medical-appointment-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestPostgresMigrationURL(t *testing.T) {
	got := PostgresMigrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "clinic",
		Password: "p@ss word",
		Name:     "scheduling",
		SSLMode:  "disable",
	})

	assert.Equal(t, "pgx5://clinic:p%40ss%20word@db:5432/scheduling?sslmode=disable", got)
}

func TestAutoMigrate_SeedsRolesIdempotently(t *testing.T) {
	db, err := OpenSQLite(SQLiteMemoryDSN(t.Name()), logger.Discard)
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))

	var roles []entity.Role
	require.NoError(t, db.Order("id").Find(&roles).Error)
	require.Len(t, roles, 3)
	assert.Equal(t, entity.RoleAdmin, roles[0].RoleName)
	assert.Equal(t, entity.RolePatient, roles[2].RoleName)

	assert.True(t, db.Migrator().HasTable(&entity.Appointment{}))
	assert.True(t, db.Migrator().HasIndex(&entity.Appointment{}, "uq_appointments_doctor_scheduled_at"))
}

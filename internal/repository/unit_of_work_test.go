package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(database.SQLiteMemoryDSN(uuid.NewString()), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func seedDoctor(t *testing.T, db *gorm.DB, crm string) uuid.UUID {
	t.Helper()

	user := &entity.User{
		Email:    fmt.Sprintf("%s@clinic.test", uuid.NewString()),
		Password: "hash",
		FullName: "Dr. " + crm,
		RoleID:   entity.RoleIDDoctor,
	}
	require.NoError(t, NewUserRepository().Create(db, user))
	require.NoError(t, NewDoctorProfileRepository().Create(db, &entity.DoctorProfile{
		UserID:         user.ID,
		CRM:            crm,
		Specialization: "Cardiology",
	}))
	return user.ID
}

func seedPatient(t *testing.T, db *gorm.DB, cpf string) uuid.UUID {
	t.Helper()

	user := &entity.User{
		Email:    fmt.Sprintf("%s@mail.test", uuid.NewString()),
		Password: "hash",
		FullName: "Patient " + cpf,
		RoleID:   entity.RoleIDPatient,
	}
	require.NoError(t, NewUserRepository().Create(db, user))
	require.NoError(t, NewPatientProfileRepository().Create(db, &entity.PatientProfile{
		UserID: user.ID,
		CPF:    cpf,
	}))
	return user.ID
}

func countAppointments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&entity.Appointment{}).Count(&count).Error)
	return count
}

func TestUnitOfWork_Do(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	repo := NewAppointmentRepository()
	doctorID := seedDoctor(t, db, "CRM/SP 123456")
	patientID := seedPatient(t, db, "52998224725")

	newAppointment := func(hour int) *entity.Appointment {
		return &entity.Appointment{
			ID:          uuid.New(),
			DoctorID:    doctorID,
			PatientID:   patientID,
			ScheduledAt: time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC),
		}
	}

	t.Run("commits when fn succeeds", func(t *testing.T) {
		err := uow.Do(context.Background(), func(tx *gorm.DB) error {
			return repo.Create(tx, newAppointment(9))
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, countAppointments(t, db))
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		boom := errors.New("boom")
		err := uow.Do(context.Background(), func(tx *gorm.DB) error {
			if err := repo.Create(tx, newAppointment(10)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.EqualValues(t, 1, countAppointments(t, db))
	})

	t.Run("rolls back when fn panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = uow.Do(context.Background(), func(tx *gorm.DB) error {
				if err := repo.Create(tx, newAppointment(11)); err != nil {
					return err
				}
				panic("unexpected")
			})
		})
		assert.EqualValues(t, 1, countAppointments(t, db))
	})

	t.Run("refuses a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := uow.Do(ctx, func(tx *gorm.DB) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("rolls back when the context is cancelled mid-flight", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := uow.Do(ctx, func(tx *gorm.DB) error {
			if err := repo.Create(tx, newAppointment(14)); err != nil {
				return err
			}
			cancel()
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotContains(t, err.Error(), "commit transaction")
		assert.EqualValues(t, 1, countAppointments(t, db))
	})

	t.Run("reports a deadline that expires mid-flight", func(t *testing.T) {
		expired, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := uow.Do(expired, func(tx *gorm.DB) error {
			if err := repo.Create(tx, newAppointment(15)); err != nil {
				return err
			}
			<-expired.Done()
			return nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.EqualValues(t, 1, countAppointments(t, db))
	})
}

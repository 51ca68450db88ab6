package repository

import (
	"testing"
	"time"

	"medical-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monday(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestAppointmentRepository_Queries(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository()

	doctorID := seedDoctor(t, db, "CRM/SP 1001")
	otherDoctorID := seedDoctor(t, db, "CRM/RJ 2002")
	patientID := seedPatient(t, db, "52998224725")

	for _, a := range []entity.Appointment{
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, ScheduledAt: monday(14, 30)},
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, ScheduledAt: monday(9, 0)},
		{ID: uuid.New(), DoctorID: otherDoctorID, PatientID: patientID, ScheduledAt: monday(10, 0)},
		// first instant of the next day
		{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, ScheduledAt: monday(24, 0)},
	} {
		a := a
		require.NoError(t, repo.Create(db, &a))
	}

	dayStart, dayEnd := monday(0, 0), monday(24, 0)

	t.Run("exists by doctor at exact time", func(t *testing.T) {
		taken, err := repo.ExistsByDoctorAt(db, doctorID, monday(9, 0))
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsByDoctorAt(db, doctorID, monday(9, 30))
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repo.ExistsByDoctorAt(db, otherDoctorID, monday(9, 0))
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("exists by patient and doctor in a day", func(t *testing.T) {
		exists, err := repo.ExistsByPatientAndDoctorBetween(db, patientID, otherDoctorID, dayStart, dayEnd)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByPatientAndDoctorBetween(db, uuid.New(), doctorID, dayStart, dayEnd)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("booked times are ascending and exclude the next day", func(t *testing.T) {
		times, err := repo.FindScheduledTimesByDoctor(db, doctorID, dayStart, dayEnd)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{monday(9, 0), monday(14, 30)}, times)
	})

	t.Run("patient appointments preload the doctor", func(t *testing.T) {
		appointments, err := repo.FindByPatientID(db, patientID)
		require.NoError(t, err)
		require.Len(t, appointments, 4)
		assert.Equal(t, monday(9, 0), appointments[0].ScheduledAt)
		require.NotNil(t, appointments[0].Doctor)
		assert.Equal(t, "Dr. CRM/SP 1001", appointments[0].Doctor.User.FullName)
	})
}

func TestAppointmentRepository_FindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository()
	appointment := &entity.Appointment{
		ID:          uuid.New(),
		DoctorID:    seedDoctor(t, db, "CRM/SP 1001"),
		PatientID:   seedPatient(t, db, "52998224725"),
		ScheduledAt: monday(8, 0),
	}
	require.NoError(t, repo.Create(db, appointment))

	found, err := repo.FindByID(db, appointment.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, monday(8, 0), found.ScheduledAt)
	require.NotNil(t, found.Patient)
	assert.Equal(t, "Patient 52998224725", found.Patient.User.FullName)

	missing, err := repo.FindByID(db, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppointmentRepository_Constraints(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository()
	doctorID := seedDoctor(t, db, "CRM/SP 1001")
	patientID := seedPatient(t, db, "52998224725")

	require.NoError(t, repo.Create(db, &entity.Appointment{
		ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, ScheduledAt: monday(9, 0),
	}))

	t.Run("doctor and time are unique", func(t *testing.T) {
		err := repo.Create(db, &entity.Appointment{
			ID: uuid.New(), DoctorID: doctorID, PatientID: seedPatient(t, db, "11144477735"), ScheduledAt: monday(9, 0),
		})

		var sqliteErr sqlite3.Error
		require.ErrorAs(t, err, &sqliteErr)
		assert.Equal(t, sqlite3.ErrConstraintUnique, sqliteErr.ExtendedCode)
		assert.Contains(t, sqliteErr.Error(), "scheduled_at")
	})

	t.Run("doctor must exist", func(t *testing.T) {
		err := repo.Create(db, &entity.Appointment{
			ID: uuid.New(), DoctorID: uuid.New(), PatientID: patientID, ScheduledAt: monday(10, 0),
		})

		var sqliteErr sqlite3.Error
		require.ErrorAs(t, err, &sqliteErr)
		assert.Equal(t, sqlite3.ErrConstraintForeignKey, sqliteErr.ExtendedCode)
	})

	t.Run("doctor with appointments cannot be removed", func(t *testing.T) {
		_, err := NewDoctorProfileRepository().Delete(db, doctorID)

		// ON DELETE RESTRICT fires as a trigger constraint, not as a plain foreign key error
		var sqliteErr sqlite3.Error
		require.ErrorAs(t, err, &sqliteErr)
		assert.Equal(t, sqlite3.ErrConstraintTrigger, sqliteErr.ExtendedCode)
		assert.Contains(t, sqliteErr.Error(), "FOREIGN KEY")
	})
}

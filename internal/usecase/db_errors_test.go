package usecase

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_doctor_scheduled_at"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_appointments_patient"}
	serialization := &pgconn.PgError{Code: "40001"}

	assert.True(t, isDuplicateKeyError(unique, "scheduled_at"))
	assert.False(t, isDuplicateKeyError(unique, "email"))
	assert.False(t, isDuplicateKeyError(fk, "patient"))

	assert.True(t, isForeignKeyError(fk, "patient"))
	assert.True(t, isForeignKeyError(fk, ""))
	assert.False(t, isForeignKeyError(fk, "doctor"))

	assert.True(t, isSerializationFailure(serialization))
	assert.False(t, isSerializationFailure(unique))
	assert.False(t, isSerializationFailure(fmt.Errorf("plain")))
}

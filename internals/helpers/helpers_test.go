package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "uq_members_npa"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: members.member_npa")))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))

	assert.Equal(t, "uq_members_npa", ConstraintName(&pgconn.PgError{Code: "23505", ConstraintName: "uq_members_npa"}))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "pd-jawa-barat", Slugify("  PD Jawa Barat ", 0))
	assert.Equal(t, "cafe-paru", Slugify("Café  Paru!!", 0))
	assert.Equal(t, "item", Slugify("!!!", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 4))
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Nama  string `json:"nama" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
	}
	errs := ValidateStruct(req{Email: "x"})
	assert.Contains(t, errs, "nama")
	assert.Contains(t, errs, "email")
	assert.Nil(t, ValidateStruct(req{Nama: "Budi"}))
}

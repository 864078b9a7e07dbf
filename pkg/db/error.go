package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Violation names the integrity constraint a write broke.
type Violation int

const (
	NoViolation Violation = iota
	UniqueViolation
	ForeignKeyViolation
)

var pgViolations = map[string]Violation{
	"23505": UniqueViolation,
	"23503": ForeignKeyViolation,
}

// driver messages for dialects without typed errors (mysql, sqlite)
var textViolations = []struct {
	fragment  string
	violation Violation
}{
	{"Error 1062", UniqueViolation},
	{"UNIQUE constraint failed", UniqueViolation},
	{"Error 1452", ForeignKeyViolation},
	{"FOREIGN KEY constraint failed", ForeignKeyViolation},
}

// ClassifyViolation maps gorm, postgres, mysql and sqlite errors onto a Violation.
func ClassifyViolation(err error) Violation {
	switch {
	case err == nil:
		return NoViolation
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return UniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ForeignKeyViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgViolations[pgErr.Code]
	}

	msg := err.Error()
	for _, tv := range textViolations {
		if strings.Contains(msg, tv.fragment) {
			return tv.violation
		}
	}
	return NoViolation
}

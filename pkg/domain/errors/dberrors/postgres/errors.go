package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
)

// Missing tells that a row identified by Identity is not found in Table.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// Violation is a constraint of Table rejecting a write.
type Violation struct {
	Table      string
	Constraint string
	Code       string

	err error
}

var _ error = Violation{}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: constraint %s is violated (%s)", v.Table, v.Constraint, v.Code)
}

// Unwrap returns the domain error for the violation next to the original.
func (v Violation) Unwrap() []error {
	switch v.Code {
	case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
		return []error{domerr.ErrConflict, v.err}
	case pgerrcode.ForeignKeyViolation:
		return []error{domerr.ErrMissing, v.err}
	}
	return []error{v.err}
}

// AsViolation converts integrity constraint errors from postgres into Violation.
//
// Other errors are returned as they are.
func AsViolation(err error) error {
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) || !pgerrcode.IsIntegrityConstraintViolation(pgerr.Code) {
		return err
	}
	return Violation{
		Table:      pgerr.TableName,
		Constraint: pgerr.ConstraintName,
		Code:       pgerr.Code,
		err:        err,
	}
}

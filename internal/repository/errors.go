package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrUniqueViolation is returned when an insert collides with a unique constraint.
var ErrUniqueViolation = errors.New("unique violation")

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

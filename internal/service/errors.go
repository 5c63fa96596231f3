package service

import (
	"errors"

	"github.com/dafibh/tally/tally-backend/internal/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

package services

import (
	"errors"
	"fmt"

	perrors "github.com/yungbote/petfit-backend/internal/pkg/errors"
)

var (
	ErrPetNotFound     = fmt.Errorf("pet %w", perrors.ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", perrors.ErrNotFound)
)

// IsNotFound matches ErrPetNotFound, ErrProductNotFound and anything else wrapping the not-found sentinel.
func IsNotFound(err error) bool { return errors.Is(err, perrors.ErrNotFound) }

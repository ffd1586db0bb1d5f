package impl

import (
	"errors"
	"fmt"

	"sfc/internal/service"
)

func invalid(msg string) error { return fmt.Errorf("%w: %s", service.ErrValidation, msg) }

var (
	ErrPasswordLength   = invalid("password must be 8 to 128 characters")
	ErrUnsupportedHash  = errors.New("unsupported password hash format")
	ErrInvalidAccessJWT = errors.New("could not validate credentials")
)

package service

import "errors"

// ErrValidation marks input rejected before any state is touched.
var ErrValidation = errors.New("validation failed")

package model

import "errors"

// ErrInvalidInput marks structurally invalid inputs (zero or negative
// prices and amounts). These indicate a caller bug and are never coerced
// into a SKIP verdict or a validation reason code.
var ErrInvalidInput = errors.New("invalid input")

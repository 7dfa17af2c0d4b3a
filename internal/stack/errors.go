package stack

import "errors"

// ErrComposeNotFound — бинарь compose не найден в PATH.
var ErrComposeNotFound = errors.New("compose binary not found")

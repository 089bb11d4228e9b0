package auth

import "errors"

var ErrNotFound = errors.New("administrator not found")

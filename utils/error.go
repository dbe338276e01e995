package utils

import "errors"

// ErrorRecordNotFound is returned by model finders instead of leaking
// gorm.ErrRecordNotFound to callers.
var ErrorRecordNotFound = errors.New("record not found")

package errs

import (
	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is reports whether err matches target. Marks attached with Mark are
// invisible to the standard library's errors.Is, so every sentinel check on
// errors from this package must go through here.
func Is(err, target error) bool {
	return cr.Is(err, target)
}

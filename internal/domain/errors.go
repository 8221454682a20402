package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound is returned when a named profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when creating or renaming onto a taken name.
	ErrProfileExists = errors.New("profile already exists")
	// ErrDefaultProfile is returned when deleting or renaming the Default profile.
	ErrDefaultProfile = errors.New("the Default profile cannot be deleted or renamed")
	// ErrInvalidProfileName is returned for names that cannot map to a file.
	ErrInvalidProfileName = errors.New("invalid profile name")

	// ErrIO marks a failed write of a store file. The underlying *fs.PathError
	// is wrapped alongside it.
	ErrIO = errors.New("i/o error")

	// ErrParse is returned when a whole document cannot be parsed or encoded.
	ErrParse = errors.New("parse error")
)

// WriteError classifies a failed save. Encoding failures already carry
// ErrParse and are returned as is; anything else is wrapped in ErrIO.
func WriteError(err error) error {
	if err == nil || errors.Is(err, ErrParse) || errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

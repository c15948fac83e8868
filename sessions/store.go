package sessions

import (
	"errors"
	"time"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrDuplicateRecord = errors.New("attendance already recorded")
)

// Store is the durable side the session subsystem talks to: a class lookup
// when a session is created and permanent attendance rows when it is
// finalized.
type Store interface {
	// ClassInfo returns the subject name for a class, or ErrClassNotFound.
	ClassInfo(classID string) (string, error)

	// MarkPresent creates one attendance record (present) for the given day.
	// Fails with ErrStudentNotFound or ErrDuplicateRecord; a failure for one
	// student never affects records already written for others.
	MarkPresent(classID, studentID string, day time.Time) error
}

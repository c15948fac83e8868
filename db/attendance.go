package db

import (
	"database/sql"
	"fmt"
	"time"

	"attendance_app_backend/sessions"
)

// AttendanceStore backs the session manager with the durable tables:
// class lookups on session creation and attendance rows on finalize.
type AttendanceStore struct {
	DB *sql.DB
}

func NewAttendanceStore(db *sql.DB) *AttendanceStore {
	return &AttendanceStore{DB: db}
}

// ClassInfo returns the subject name for a class.
func (s *AttendanceStore) ClassInfo(classID string) (string, error) {
	var subject string
	err := s.DB.QueryRow(`SELECT subject_name FROM classes WHERE id = $1`, classID).Scan(&subject)
	if err == sql.ErrNoRows {
		return "", sessions.ErrClassNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error looking up class: %w", err)
	}
	return subject, nil
}

// MarkPresent creates one present attendance record for the given day.
// Inserts are create-only: an existing row for the same class, student and
// date is reported as a duplicate, never overwritten.
func (s *AttendanceStore) MarkPresent(classID, studentID string, day time.Time) error {
	var exists bool
	err := s.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, studentID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error verifying student: %w", err)
	}
	if !exists {
		return sessions.ErrStudentNotFound
	}

	date := day.Format("2006-01-02")
	result, err := s.DB.Exec(
		`INSERT INTO attendance (class_id, student_id, date, present)
		 VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (class_id, student_id, date) DO NOTHING`,
		classID, studentID, date,
	)
	if err != nil {
		return fmt.Errorf("error inserting attendance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error verifying insert: %w", err)
	}
	if rows == 0 {
		return sessions.ErrDuplicateRecord
	}
	return nil
}

package models

import "attendance_app_backend/pivot"

// Status codes used at the boundary.
const (
	StatusPresent = "P"
	StatusAbsent  = "A"
)

type AttendanceItem struct {
	StudentID string `json:"student_id" binding:"required"`
	Present   bool   `json:"present"`
}

type AttendanceRequest struct {
	Attendees []AttendanceItem `json:"attendees" binding:"required,dive"`
}

type AttendanceSaveResponse struct {
	Message string   `json:"message"`
	ClassID string   `json:"class_id"`
	Date    string   `json:"date"`
	Created int      `json:"created"`
	Skipped []string `json:"skipped"`
}

type AttendanceHistoryResponse struct {
	ClassCode         string         `json:"class_code"`
	AttendanceHistory []pivot.Record `json:"attendance_history"`
}

type AttendancePivotResponse struct {
	ClassCode string      `json:"class_code"`
	Dates     []string    `json:"dates"`
	Rows      []pivot.Row `json:"rows"`
}

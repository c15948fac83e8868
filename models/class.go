package models

type StudentCreate struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type CreateClassRequest struct {
	ID          string          `json:"id" binding:"required"`
	SubjectName string          `json:"subject_name" binding:"required"`
	FacultyID   string          `json:"faculty_id" binding:"required"`
	Students    []StudentCreate `json:"students" binding:"required,dive"`
}

// ClassResponse is one dashboard row. AttendanceTaken is the "Yes"/"No"
// flag for today; Color is the stable palette entry for the card.
type ClassResponse struct {
	ID              string `json:"id"`
	SubjectName     string `json:"subject_name"`
	AttendanceTaken string `json:"attendance_taken"`
	Color           string `json:"color"`
}

package models

// GenerateQRResponse mirrors the shape the mobile client stores after
// opening a check-in session: the token, an inline data URL for the image,
// and the raw validation URL the QR encodes.
type GenerateQRResponse struct {
	Token         string `json:"token"`
	Data          string `json:"data"`
	ValidationURL string `json:"validation_url"`
}

type SubmitQRRequest struct {
	Token      string `json:"token" binding:"required"`
	RollNumber string `json:"roll_number" binding:"required"`
}

type SubmitQRResponse struct {
	Message         string `json:"message"`
	AlreadyRecorded bool   `json:"already_recorded"`
}

type QRClassInfoResponse struct {
	ClassID     string `json:"class_id"`
	SubjectName string `json:"subject_name"`
}

// QRStatusResponse is one poll answer. The detailed fields are omitted on
// cheap polls to bound payload size.
type QRStatusResponse struct {
	SubmittedCount    int      `json:"submitted_count"`
	SubmittedStudents []string `json:"submitted_students,omitempty"`
	RecentSubmissions *int     `json:"recent_submissions,omitempty"`
	RecentStudents    []string `json:"recent_students,omitempty"`
}

type CancelQRRequest struct {
	Token string `json:"token" binding:"required"`
}

// CancelQRResponse reports the bulk conversion: every submission either
// counts in StudentsMarkedPresent or appears in Errors.
type CancelQRResponse struct {
	Token                 string   `json:"token"`
	StudentsMarkedPresent int      `json:"students_marked_present"`
	SubmittedStudents     []string `json:"submitted_students"`
	Errors                []string `json:"errors"`
}

package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"attendance_app_backend/models"
	"attendance_app_backend/pivot"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	db *sql.DB
}

func NewAttendanceHandler(db *sql.DB) *AttendanceHandler {
	return &AttendanceHandler{db: db}
}

// SaveAttendance records today's attendance for a class. Create-only:
// students that already have a record for today land in skipped, they are
// never overwritten via POST.
func (h *AttendanceHandler) SaveAttendance(c *gin.Context) {
	classID := c.Param("id")

	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var classExists bool
	err := h.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, classID,
	).Scan(&classExists)
	if err != nil {
		log.Printf("Error verifying class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify class"})
		return
	}
	if !classExists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Class '%s' not found", classID)})
		return
	}

	created := 0
	skipped := []string{}

	for _, item := range req.Attendees {
		var studentExists bool
		err := h.db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, item.StudentID,
		).Scan(&studentExists)
		if err != nil {
			log.Printf("Error verifying student: %v", err)
			skipped = append(skipped, fmt.Sprintf("Student '%s': lookup failed", item.StudentID))
			continue
		}
		if !studentExists {
			skipped = append(skipped, fmt.Sprintf("Student '%s' not found", item.StudentID))
			continue
		}

		result, err := h.db.Exec(
			`INSERT INTO attendance (class_id, student_id, date, present)
			 VALUES ($1, $2, CURRENT_DATE, $3)
			 ON CONFLICT (class_id, student_id, date) DO NOTHING`,
			classID, item.StudentID, item.Present,
		)
		if err != nil {
			log.Printf("Error inserting attendance: %v", err)
			skipped = append(skipped, fmt.Sprintf("Student '%s': insert failed", item.StudentID))
			continue
		}
		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			skipped = append(skipped, fmt.Sprintf("Attendance already recorded for student '%s'", item.StudentID))
			continue
		}
		created++
	}

	c.JSON(http.StatusOK, models.AttendanceSaveResponse{
		Message: "Attendance saved",
		ClassID: classID,
		Date:    time.Now().Format("2006-01-02"),
		Created: created,
		Skipped: skipped,
	})
}

// UpdateAttendance toggles today's existing records. Updates only; students
// without a record for today are reported, not created.
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	classID := c.Param("id")

	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.db.Query(
		`SELECT student_id, present FROM attendance WHERE class_id = $1 AND date = CURRENT_DATE`,
		classID,
	)
	if err != nil {
		log.Printf("Error fetching attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}
	existing := map[string]bool{}
	for rows.Next() {
		var studentID string
		var present bool
		if err := rows.Scan(&studentID, &present); err != nil {
			rows.Close()
			log.Printf("Error scanning attendance: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan attendance"})
			return
		}
		existing[studentID] = present
	}
	rows.Close()

	if len(existing) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No attendance records found for this class and date"})
		return
	}

	updated := 0
	errs := []string{}

	for _, item := range req.Attendees {
		present, ok := existing[item.StudentID]
		if !ok {
			errs = append(errs, fmt.Sprintf("Student '%s' has no existing record for this date", item.StudentID))
			continue
		}
		if present == item.Present {
			continue
		}
		if _, err := h.db.Exec(
			`UPDATE attendance SET present = $1 WHERE class_id = $2 AND student_id = $3 AND date = CURRENT_DATE`,
			item.Present, classID, item.StudentID,
		); err != nil {
			log.Printf("Error updating attendance: %v", err)
			errs = append(errs, fmt.Sprintf("Student '%s': update failed", item.StudentID))
			continue
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Updated %d record(s)", updated),
		"errors":  errs,
	})
}

// GetHistory returns the flat attendance record list for a class, sorted by
// date then student id, with boundary status codes P/A.
func (h *AttendanceHandler) GetHistory(c *gin.Context) {
	classID := c.Param("id")

	records, err := h.fetchHistory(classID)
	if err != nil {
		log.Printf("Error fetching attendance history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance history"})
		return
	}

	c.JSON(http.StatusOK, models.AttendanceHistoryResponse{
		ClassCode:         classID,
		AttendanceHistory: records,
	})
}

// GetPivot returns the dense per-student, per-date grid for a class.
func (h *AttendanceHandler) GetPivot(c *gin.Context) {
	classID := c.Param("id")

	records, err := h.fetchHistory(classID)
	if err != nil {
		log.Printf("Error fetching attendance history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance history"})
		return
	}

	grid := pivot.Pivot(records)
	c.JSON(http.StatusOK, models.AttendancePivotResponse{
		ClassCode: classID,
		Dates:     grid.Dates,
		Rows:      grid.Rows,
	})
}

func (h *AttendanceHandler) fetchHistory(classID string) ([]pivot.Record, error) {
	rows, err := h.db.Query(`
        SELECT a.date, s.id, s.name, a.present
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        WHERE a.class_id = $1
        ORDER BY a.date ASC, s.id ASC
    `, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []pivot.Record{}
	for rows.Next() {
		var date time.Time
		var rec pivot.Record
		var present bool
		if err := rows.Scan(&date, &rec.StudentID, &rec.StudentName, &present); err != nil {
			return nil, err
		}
		rec.Date = date.Format("2006-01-02")
		rec.Status = models.StatusAbsent
		if present {
			rec.Status = models.StatusPresent
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"attendance_app_backend/models"

	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	db *sql.DB
}

func NewClassHandler(db *sql.DB) *ClassHandler {
	return &ClassHandler{db: db}
}

// CreateClass registers a class with its roster and marks every student
// present for today, matching the behavior of the roster-upload flow.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var facultyExists bool
	err := h.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM faculty WHERE id = $1)`, req.FacultyID,
	).Scan(&facultyExists)
	if err != nil {
		log.Printf("Error verifying faculty: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify faculty"})
		return
	}
	if !facultyExists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Faculty with id '%s' does not exist", req.FacultyID)})
		return
	}

	var classExists bool
	err = h.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, req.ID,
	).Scan(&classExists)
	if err != nil {
		log.Printf("Error verifying class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify class"})
		return
	}
	if classExists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Class '%s' already exists. Please delete the existing class before creating a new one.", req.ID),
		})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	if _, err := tx.Exec(
		`INSERT INTO classes (id, subject_name, faculty_id) VALUES ($1, $2, $3)`,
		req.ID, req.SubjectName, req.FacultyID,
	); err != nil {
		tx.Rollback()
		log.Printf("Error inserting class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	for _, student := range req.Students {
		if _, err := tx.Exec(
			`INSERT INTO students (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			student.ID, student.Name,
		); err != nil {
			tx.Rollback()
			log.Printf("Error inserting student: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add students"})
			return
		}

		if _, err := tx.Exec(
			`INSERT INTO attendance (class_id, student_id, date, present)
			 VALUES ($1, $2, CURRENT_DATE, TRUE)
			 ON CONFLICT (class_id, student_id, date) DO NOTHING`,
			req.ID, student.ID,
		); err != nil {
			tx.Rollback()
			log.Printf("Error inserting attendance: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing class creation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Class '%s' created with %d students, all marked present for today", req.ID, len(req.Students)),
	})
}

// GetClasses lists every class with a Yes/No flag for today's attendance
// and a stable dashboard color per row.
func (h *ClassHandler) GetClasses(c *gin.Context) {
	rows, err := h.db.Query(`
        SELECT c.id, c.subject_name, COALESCE(t.count_today, 0)
        FROM classes c
        LEFT JOIN (
            SELECT class_id, COUNT(id) AS count_today
            FROM attendance
            WHERE date = CURRENT_DATE
            GROUP BY class_id
        ) t ON t.class_id = c.id
        ORDER BY c.id
    `)
	if err != nil {
		log.Printf("Error fetching classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}
	defer rows.Close()

	classes := []models.ClassResponse{}
	for rows.Next() {
		var cls models.ClassResponse
		var countToday int
		if err := rows.Scan(&cls.ID, &cls.SubjectName, &countToday); err != nil {
			log.Printf("Error scanning class: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan class"})
			return
		}
		cls.AttendanceTaken = "No"
		if countToday > 0 {
			cls.AttendanceTaken = "Yes"
		}
		cls.Color = models.ColorFor(len(classes))
		classes = append(classes, cls)
	}

	c.JSON(http.StatusOK, classes)
}

// DeleteClass removes a class with its attendance, then garbage-collects
// students no longer referenced by any class.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	classID := c.Param("id")

	var exists bool
	err := h.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, classID,
	).Scan(&exists)
	if err != nil {
		log.Printf("Error verifying class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify class"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Class with id '%s' does not exist", classID)})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}

	if _, err := tx.Exec(`DELETE FROM attendance WHERE class_id = $1`, classID); err != nil {
		tx.Rollback()
		log.Printf("Error deleting attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attendance"})
		return
	}

	if _, err := tx.Exec(`DELETE FROM classes WHERE id = $1`, classID); err != nil {
		tx.Rollback()
		log.Printf("Error deleting class: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}

	if _, err := tx.Exec(
		`DELETE FROM students s WHERE NOT EXISTS (SELECT 1 FROM attendance a WHERE a.student_id = s.id)`,
	); err != nil {
		tx.Rollback()
		log.Printf("Error removing orphaned students: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove orphaned students"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing class deletion: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Class '%s' and its attendance have been deleted. Students no longer in any class were also removed.", classID),
	})
}

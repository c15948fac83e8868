package handlers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strconv"

	"attendance_app_backend/models"
	"attendance_app_backend/qr"
	"attendance_app_backend/sessions"

	"github.com/gin-gonic/gin"
)

// QRSessionHandler is the HTTP boundary of the check-in session subsystem.
// All lifecycle and consistency rules live in the sessions package; this
// layer only shapes requests and responses.
type QRSessionHandler struct {
	manager *sessions.Manager
	// studentURL is where a validated scan sends the student's browser,
	// with the token appended so the submission page can redeem it.
	studentURL string
}

func NewQRSessionHandler(manager *sessions.Manager, studentURL string) *QRSessionHandler {
	return &QRSessionHandler{manager: manager, studentURL: studentURL}
}

// GenerateQR opens a check-in session for a class and returns the token
// with the validation URL rendered as a QR PNG, either inline as a data URL
// (default) or as a raw image.
func (h *QRSessionHandler) GenerateQR(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(qr.DefaultSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer"})
		return
	}
	asBase64 := c.DefaultQuery("as_base64", "true") != "false"

	sess, err := h.manager.Create(classID)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		case errors.Is(err, sessions.ErrTooManySessions):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many active sessions for this class"})
		default:
			log.Printf("Error creating session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		}
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	validationURL := sess.ValidationURL(scheme + "://" + c.Request.Host)

	png, err := qr.PNG(validationURL, size)
	if err != nil {
		log.Printf("Error encoding QR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	if asBase64 {
		c.JSON(http.StatusOK, models.GenerateQRResponse{
			Token:         sess.Token,
			Data:          "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
			ValidationURL: validationURL,
		})
		return
	}

	c.Header("X-QR-Token", sess.Token)
	c.Header("X-Validation-URL", validationURL)
	c.Data(http.StatusOK, "image/png", png)
}

// ValidateQR is the URL the QR encodes. An active token redirects the
// student to the submission page with the token attached; anything else is
// gone.
func (h *QRSessionHandler) ValidateQR(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	if _, err := h.manager.Lookup(token); err != nil {
		c.JSON(http.StatusGone, gin.H{"error": "Token invalid or cancelled"})
		return
	}

	c.Redirect(http.StatusFound, h.studentURL+"?token="+token)
}

// ClassInfo tells a scanning student which class the token belongs to.
func (h *QRSessionHandler) ClassInfo(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	sess, err := h.manager.Lookup(token)
	if err != nil {
		c.JSON(http.StatusGone, gin.H{"error": "Token invalid or cancelled"})
		return
	}

	c.JSON(http.StatusOK, models.QRClassInfoResponse{
		ClassID:     sess.ClassID,
		SubjectName: sess.Subject,
	})
}

// SubmitQR redeems a token for one student. A double scan is a success
// with already_recorded set, so students retrying never see an error.
func (h *QRSessionHandler) SubmitQR(c *gin.Context) {
	var req models.SubmitQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.manager.Redeem(req.Token, req.RollNumber)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidStudentID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid roll number"})
		case errors.Is(err, sessions.ErrUnknownToken):
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		case errors.Is(err, sessions.ErrSessionClosed):
			c.JSON(http.StatusGone, gin.H{"error": "Session already finalized"})
		default:
			log.Printf("Error redeeming token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit attendance"})
		}
		return
	}

	if result.AlreadyRecorded {
		c.JSON(http.StatusOK, models.SubmitQRResponse{
			Message:         "Attendance already recorded",
			AlreadyRecorded: true,
		})
		return
	}

	c.JSON(http.StatusOK, models.SubmitQRResponse{Message: "Attendance recorded"})
}

// StatusQR answers the polling loop. Cheap polls return the count only;
// detailed polls add the roster and the trailing recent-activity window.
func (h *QRSessionHandler) StatusQR(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}
	detailed := c.Query("detailed") == "true"

	snap, err := h.manager.Status(token, detailed)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}

	resp := models.QRStatusResponse{SubmittedCount: snap.Count}
	if detailed {
		resp.SubmittedStudents = snap.StudentIDs
		if resp.SubmittedStudents == nil {
			resp.SubmittedStudents = []string{}
		}
		recent := snap.RecentCount
		resp.RecentSubmissions = &recent
		resp.RecentStudents = snap.RecentStudentIDs
		if resp.RecentStudents == nil {
			resp.RecentStudents = []string{}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// CancelQR finalizes the session: every ledger entry becomes a permanent
// present record or an entry in errors, and the token is retired. Fired on
// the cancel button and on navigation-away alike.
func (h *QRSessionHandler) CancelQR(c *gin.Context) {
	var req models.CancelQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	result, err := h.manager.Cancel(req.Token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}

	resp := models.CancelQRResponse{
		Token:                 req.Token,
		StudentsMarkedPresent: result.Marked,
		SubmittedStudents:     result.StudentIDs,
		Errors:                result.Errors,
	}
	if resp.SubmittedStudents == nil {
		resp.SubmittedStudents = []string{}
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	c.JSON(http.StatusOK, resp)
}

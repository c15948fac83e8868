package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"attendance_app_backend/models"
	"attendance_app_backend/sessions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	classes  map[string]string
	students map[string]bool
	marked   map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		classes:  map[string]string{"CS101": "Data Structures"},
		students: map[string]bool{"101": true, "102": true},
		marked:   map[string]bool{},
	}
}

func (f *fakeStore) ClassInfo(classID string) (string, error) {
	subject, ok := f.classes[classID]
	if !ok {
		return "", sessions.ErrClassNotFound
	}
	return subject, nil
}

func (f *fakeStore) MarkPresent(classID, studentID string, day time.Time) error {
	if !f.students[studentID] {
		return sessions.ErrStudentNotFound
	}
	key := classID + "|" + studentID + "|" + day.Format("2006-01-02")
	if f.marked[key] {
		return sessions.ErrDuplicateRecord
	}
	f.marked[key] = true
	return nil
}

func setupQRRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := sessions.NewManager(newFakeStore())
	h := NewQRSessionHandler(manager, "http://localhost:8081/qr-student")

	r := gin.New()
	r.GET("/qr/generate", h.GenerateQR)
	r.GET("/qr/validate", h.ValidateQR)
	r.GET("/qr/class-info", h.ClassInfo)
	r.POST("/qr/submit", h.SubmitQR)
	r.GET("/qr/status", h.StatusQR)
	r.POST("/qr/cancel", h.CancelQR)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func generateSession(t *testing.T, r *gin.Engine) models.GenerateQRResponse {
	t.Helper()
	rec := doJSON(r, http.MethodGet, "/qr/generate?class_id=CS101", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.GenerateQRResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.True(t, strings.HasPrefix(resp.Data, "data:image/png;base64,"))
	assert.Contains(t, resp.ValidationURL, resp.Token)
	return resp
}

func TestGenerateQRUnknownClass(t *testing.T) {
	r := setupQRRouter(t)

	rec := doJSON(r, http.MethodGet, "/qr/generate?class_id=NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateQRRawImage(t *testing.T) {
	r := setupQRRouter(t)

	rec := doJSON(r, http.MethodGet, "/qr/generate?class_id=CS101&as_base64=false", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-QR-Token"))
	assert.Contains(t, rec.Header().Get("X-Validation-URL"), rec.Header().Get("X-QR-Token"))
}

func TestQRSubmitStatusCancelFlow(t *testing.T) {
	r := setupQRRouter(t)
	qrResp := generateSession(t, r)

	// Validation redirects a scanning student while the session is live.
	rec := doJSON(r, http.MethodGet, "/qr/validate?token="+qrResp.Token, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), qrResp.Token)

	rec = doJSON(r, http.MethodGet, "/qr/class-info?token="+qrResp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var info models.QRClassInfoResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "CS101", info.ClassID)
	assert.Equal(t, "Data Structures", info.SubjectName)

	// First scan is accepted, the double scan reports already_recorded.
	rec = doJSON(r, http.MethodPost, "/qr/submit", models.SubmitQRRequest{Token: qrResp.Token, RollNumber: "101"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var submit models.SubmitQRResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submit))
	assert.False(t, submit.AlreadyRecorded)

	rec = doJSON(r, http.MethodPost, "/qr/submit", models.SubmitQRRequest{Token: qrResp.Token, RollNumber: "101"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submit))
	assert.True(t, submit.AlreadyRecorded)

	rec = doJSON(r, http.MethodPost, "/qr/submit", models.SubmitQRRequest{Token: qrResp.Token, RollNumber: "102"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Cheap poll carries the count only.
	rec = doJSON(r, http.MethodGet, "/qr/status?token="+qrResp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var status models.QRStatusResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 2, status.SubmittedCount)
	assert.Nil(t, status.SubmittedStudents)

	// Detailed poll adds the roster and the recent window.
	rec = doJSON(r, http.MethodGet, "/qr/status?token="+qrResp.Token+"&detailed=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, []string{"101", "102"}, status.SubmittedStudents)
	if assert.NotNil(t, status.RecentSubmissions) {
		assert.Equal(t, 2, *status.RecentSubmissions)
	}

	// Cancel converts the ledger and retires the token.
	rec = doJSON(r, http.MethodPost, "/qr/cancel", models.CancelQRRequest{Token: qrResp.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	var cancel models.CancelQRResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancel))
	assert.Equal(t, 2, cancel.StudentsMarkedPresent)
	assert.Equal(t, []string{"101", "102"}, cancel.SubmittedStudents)
	assert.Empty(t, cancel.Errors)

	// The retired token no longer validates or accepts scans.
	rec = doJSON(r, http.MethodGet, "/qr/validate?token="+qrResp.Token, nil)
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = doJSON(r, http.MethodPost, "/qr/submit", models.SubmitQRRequest{Token: qrResp.Token, RollNumber: "102"})
	assert.Equal(t, http.StatusGone, rec.Code)

	// A second cancel is a benign no-op.
	rec = doJSON(r, http.MethodPost, "/qr/cancel", models.CancelQRRequest{Token: qrResp.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancel))
	assert.Equal(t, 0, cancel.StudentsMarkedPresent)
}

func TestQRCancelConservesSubmissions(t *testing.T) {
	r := setupQRRouter(t)
	qrResp := generateSession(t, r)

	// 999 is not on the roster; it must surface in errors, not vanish.
	for _, roll := range []string{"101", "999"} {
		rec := doJSON(r, http.MethodPost, "/qr/submit", models.SubmitQRRequest{Token: qrResp.Token, RollNumber: roll})
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(r, http.MethodPost, "/qr/cancel", models.CancelQRRequest{Token: qrResp.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	var cancel models.CancelQRResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancel))
	assert.Equal(t, 1, cancel.StudentsMarkedPresent)
	assert.Len(t, cancel.Errors, 1)
	assert.Contains(t, cancel.Errors[0], "999")
	assert.Equal(t, len(cancel.SubmittedStudents), cancel.StudentsMarkedPresent+len(cancel.Errors))
}

func TestQRStatusUnknownToken(t *testing.T) {
	r := setupQRRouter(t)

	rec := doJSON(r, http.MethodGet, "/qr/status?token=deadbeef", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQRSubmitInvalidRollNumber(t *testing.T) {
	r := setupQRRouter(t)
	qrResp := generateSession(t, r)

	rec := doJSON(r, http.MethodPost, "/qr/submit", models.SubmitQRRequest{Token: qrResp.Token, RollNumber: "22 CSE 1032"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

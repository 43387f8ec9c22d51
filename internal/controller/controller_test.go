package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/service"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err    error
		status int
	}{
		{service.NewNotFoundError("missing"), http.StatusNotFound},
		{service.ErrUnavailable, http.StatusNotFound},
		{service.NewValidationError("bad"), http.StatusBadRequest},
		{service.NewForbiddenError("no"), http.StatusForbidden},
		{service.NewExpiredError("late"), http.StatusGone},
		{&service.ServiceError{Code: service.ErrorDelivery, Message: "smtp"}, http.StatusBadGateway},
		{&service.ServiceError{Code: service.ErrorAIUnavailable, Message: "ai"}, http.StatusServiceUnavailable},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondError(c, tt.err, "test")
		if w.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
		}
		var body dto.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if tt.status == http.StatusInternalServerError && body.Message != "Internal server error" {
			t.Errorf("internal details leaked: %q", body.Message)
		}
	}
}

func TestParseIDAndBind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/tests/:test_id", func(c *gin.Context) {
		id, ok := ParseID(c, "test_id")
		if !ok {
			return
		}
		var req dto.RecordResponseRequest
		if !BindJSON(c, &req, "test") {
			return
		}
		c.JSON(http.StatusOK, dto.IDResponse{ID: id})
	})

	tests := []struct {
		path   string
		body   string
		status int
	}{
		{"/tests/12", `{"question_id":3,"choice_id":1}`, http.StatusOK},
		{"/tests/0", `{"question_id":3,"choice_id":1}`, http.StatusBadRequest},
		{"/tests/abc", `{"question_id":3,"choice_id":1}`, http.StatusBadRequest},
		{"/tests/12", `{"question_id":3}`, http.StatusBadRequest},
		{"/tests/12", `not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Errorf("%s %s: status = %d, want %d", tt.path, tt.body, w.Code, tt.status)
		}
	}
}

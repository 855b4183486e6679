package resp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/jobboard/ecode"
)

type envelope struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    map[string]any    `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("invalid body %q: %v", w.Body.String(), err)
	}
	return e
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WithStatusCode(w, http.StatusCreated, map[string]any{"id": "1"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %v, want %v", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	e := decode(t, w)
	if !e.Success || e.Code != ecode.OK || e.Data["id"] != "1" {
		t.Errorf("unexpected envelope %+v", e)
	}
}

func TestSuccessMessage(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, "deleted")
	e := decode(t, w)
	if e.Message != "deleted" || e.Data != nil {
		t.Errorf("unexpected envelope %+v", e)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", ecode.NewNotFoundError("job does not exist"), http.StatusNotFound, "job does not exist"},
		{"forbidden", ecode.NewForbiddenError("not yours"), http.StatusForbidden, "not yours"},
		{"conflict", ecode.NewConflictError("dup"), http.StatusConflict, "dup"},
		{"dependency", ecode.NewDependencyError("upload failed", errors.New("x")), http.StatusBadGateway, "upload failed"},
		{"unclassified", errors.New("secret detail"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.err)
			if w.Code != tt.status {
				t.Errorf("status = %v, want %v", w.Code, tt.status)
			}
			e := decode(t, w)
			if e.Success || e.Message != tt.message {
				t.Errorf("unexpected envelope %+v", e)
			}
		})
	}
}

func TestFieldsError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, ecode.NewFieldsError(map[string]string{"title": "title is required"}))
	e := decode(t, w)
	if w.Code != http.StatusBadRequest || e.Errors["title"] != "title is required" {
		t.Errorf("unexpected response %d %+v", w.Code, e)
	}
}

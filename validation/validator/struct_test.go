package validator

import (
	"testing"
)

type sample struct {
	Title string `json:"title" validate:"required,min=3,max=100"`
	Phone string `json:"phone" validate:"required,phone10"`
	Start string `json:"start,omitempty" validate:"omitempty,hhmm"`
	Date  string `json:"date" validate:"required,date"`
	Mode  string `json:"mode" validate:"oneof=Online Offline"`
}

func TestValidateStruct(t *testing.T) {
	ok := &sample{Title: "Backend", Phone: "0123456789", Start: "09:30", Date: "2030-01-02", Mode: "Online"}
	if errs := ValidateStruct(ok); len(errs) != 0 {
		t.Fatalf("ValidateStruct() = %v, want none", errs)
	}

	bad := &sample{Title: "ab", Phone: "123", Start: "25:00", Date: "02/01/2030", Mode: "Remote"}
	errs := ValidateStruct(bad)
	want := map[string]string{
		"title": "title must be at least 3",
		"phone": "phone must be 10 digits starting with 0",
		"start": "start must be a time in HH:MM format",
		"date":  "date must be a date in YYYY-MM-DD format",
		"mode":  "mode must be one of [Online Offline]",
	}
	for k, v := range want {
		if errs[k] != v {
			t.Errorf("errs[%s] = %q, want %q", k, errs[k], v)
		}
	}
}

func TestVar(t *testing.T) {
	if !Var("0987654321", "phone10") {
		t.Error("Var(phone10) rejected a valid phone")
	}
	if Var("1987654321", "phone10") {
		t.Error("Var(phone10) accepted a phone without leading 0")
	}
	if !Var("65f0c0ffee0123456789abcd", "objectid") {
		t.Error("Var(objectid) rejected a valid id")
	}
}

func TestDetectMIME(t *testing.T) {
	allowed := []string{"application/pdf", "image/png"}
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	if m, ok := DetectMIME(pdf, allowed); !ok || m != "application/pdf" {
		t.Errorf("DetectMIME(pdf) = %v, %v", m, ok)
	}
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if m, ok := DetectMIME(png, allowed); !ok || m != "image/png" {
		t.Errorf("DetectMIME(png) = %v, %v", m, ok)
	}
	if _, ok := DetectMIME([]byte("#!/bin/sh\necho hi\n"), allowed); ok {
		t.Error("DetectMIME(script) accepted a shell script")
	}
}

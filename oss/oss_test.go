package oss

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestLocalFileSystem(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileSystem(t.TempDir(), "/files/")
	if err != nil {
		t.Fatal(err)
	}

	obj, err := fs.Put(ctx, "CV/a.pdf", strings.NewReader("hello"), 5, "application/pdf")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if obj.Size != 5 || obj.URL != "/files/CV/a.pdf" {
		t.Errorf("Put() = %+v", obj)
	}

	ok, err := fs.Exists(ctx, "CV/a.pdf")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v", ok, err)
	}

	rc, err := fs.GetStream(ctx, "CV/a.pdf")
	if err != nil {
		t.Fatalf("GetStream() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Errorf("GetStream() = %q", data)
	}

	if err := fs.Delete(ctx, "CV/a.pdf"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := fs.Delete(ctx, "CV/a.pdf"); err != nil {
		t.Errorf("Delete() of missing object error = %v", err)
	}
	if _, err := fs.GetStream(ctx, "CV/a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStream() error = %v, want %v", err, ErrNotFound)
	}
}

func TestLocalFileSystemContainsTraversal(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileSystem(root, "")
	if err != nil {
		t.Fatal(err)
	}
	full, err := fs.fullPath("../../etc/passwd")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(full, fs.Folder) {
		t.Errorf("fullPath() = %q escapes %q", full, fs.Folder)
	}
	if _, err := fs.fullPath(".."); err == nil {
		t.Error("fullPath(..) should be rejected")
	}
}

type failingStorage struct {
	Interface
	calls int
}

func (f *failingStorage) Put(context.Context, string, io.Reader, int64, string) (*Object, error) {
	f.calls++
	return nil, errors.New("connection reset")
}

func TestBreakerOpens(t *testing.T) {
	inner := &failingStorage{}
	b := WithBreaker(inner, BreakerConfig{FailureThreshold: 2, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := b.Put(ctx, "x", strings.NewReader(""), 0, ""); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("Put() #%d error = %v", i, err)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}
	if _, err := b.Put(ctx, "x", strings.NewReader(""), 0, ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Put() error = %v, want %v", err, ErrUnavailable)
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestObjectKey(t *testing.T) {
	k := ObjectKey("CV", "My Résumé (final).PDF")
	if !strings.HasPrefix(k, "CV/") || !strings.HasSuffix(k, "-my-resume-final.pdf") {
		t.Errorf("ObjectKey() = %q", k)
	}
	if k := ObjectKey("CV", "noext"); strings.Contains(k, ".") {
		t.Errorf("ObjectKey() = %q, want no extension", k)
	}
	if k := ObjectKey("CV", "a.p;df"); strings.HasSuffix(k, ";df") {
		t.Errorf("ObjectKey() = %q kept an unsafe extension", k)
	}
}

func TestConfigValidate(t *testing.T) {
	c := &Config{Provider: "filesystem"}
	if err := c.Validate(); err != nil || c.Path == "" || c.PublicURL != "/files" {
		t.Errorf("Validate() = %v, %+v", err, c)
	}
	if err := (&Config{Provider: "s3"}).Validate(); err == nil {
		t.Error("Validate() accepted s3 without credentials")
	}
	if err := (&Config{Provider: "ftp"}).Validate(); err == nil {
		t.Error("Validate() accepted unknown provider")
	}
}

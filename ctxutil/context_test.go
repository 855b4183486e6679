package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("EnsureTraceID() returned empty id")
	}
	_, again := EnsureTraceID(ctx)
	if again != id {
		t.Errorf("EnsureTraceID() = %v, want %v", again, id)
	}
}

func TestSetUser(t *testing.T) {
	ctx := SetUser(context.Background(), "u1", "Employer")
	if GetUserID(ctx) != "u1" || GetUserRole(ctx) != "Employer" {
		t.Errorf("GetUserID()/GetUserRole() = %q/%q", GetUserID(ctx), GetUserRole(ctx))
	}
	if GetUserID(context.Background()) != "" {
		t.Error("GetUserID() on empty context should be empty")
	}
}

func TestWithAsyncContext(t *testing.T) {
	parent, cancel := context.WithCancel(SetTraceID(context.Background(), "t1"))
	ctx, release := WithAsyncContext(parent, time.Second)
	defer release()
	cancel()

	if ctx.Err() != nil {
		t.Errorf("async context cancelled with parent: %v", ctx.Err())
	}
	if GetTraceID(ctx) != "t1" {
		t.Errorf("GetTraceID() = %q, want t1", GetTraceID(ctx))
	}
}

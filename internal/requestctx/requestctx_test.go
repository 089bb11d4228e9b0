package requestctx

import (
	"context"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ctx := WithActorID(WithRequestID(context.Background(), "req-1"), "87654321Z")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected request id req-1, got %q", got)
	}
	if got := GetActorID(ctx); got != "87654321Z" {
		t.Fatalf("expected actor 87654321Z, got %q", got)
	}
	if GetRequestID(context.Background()) != "" || GetActorID(context.Background()) != "" {
		t.Fatal("expected empty values on bare context")
	}
}

func TestActionSlot(t *testing.T) {
	SetAction(context.Background(), "ignored")

	ctx := WithActionSlot(context.Background())
	inner := WithRequestID(ctx, "req-2")
	SetAction(inner, "listado")
	if got := GetAction(ctx); got != "listado" {
		t.Fatalf("expected action visible to outer context, got %q", got)
	}
}

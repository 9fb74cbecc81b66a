package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	if got := UserID(context.Background()); got != uuid.Nil {
		t.Fatalf("empty ctx: want=nil got=%s", got)
	}
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id})
	if got := UserID(ctx); got != id {
		t.Fatalf("UserID: want=%s got=%s", id, got)
	}
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t1", RequestID: "r1"})
	if td := GetTraceData(ctx); td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("trace data: got=%+v", td)
	}
}

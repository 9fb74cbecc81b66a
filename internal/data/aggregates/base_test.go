package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

func TestExecuteWriteReportsOutcomeThroughHooks(t *testing.T) {
	rid := uuid.New()
	cases := []struct {
		name      string
		body      error
		wantCode  domainagg.ErrorCode
		status    string
		conflicts int
		retries   int
	}{
		{name: "success", status: "success"},
		{
			name:     "field validation",
			body:     domainagg.Validation("roadmap.reconcile", domainagg.FieldError{Field: "tasks[0].dateEnd", Message: "bad range"}),
			wantCode: domainagg.CodeValidation,
			status:   string(domainagg.CodeValidation),
		},
		{
			name:     "missing roadmap",
			body:     domainagg.NotFound("roadmap.publish", "roadmap", rid),
			wantCode: domainagg.CodeNotFound,
			status:   string(domainagg.CodeNotFound),
		},
		{
			name:     "deleted roadmap",
			body:     domainagg.AlreadyDeleted("roadmap.delete", "roadmap", rid),
			wantCode: domainagg.CodeAlreadyDeleted,
			status:   string(domainagg.CodeAlreadyDeleted),
		},
		{
			name:     "broken invariant",
			body:     InvariantError("section outside roadmap"),
			wantCode: domainagg.CodeInvariantViolation,
			status:   string(domainagg.CodeInvariantViolation),
		},
		{
			name:      "duplicate title",
			body:      ConflictError("title taken"),
			wantCode:  domainagg.CodeConflict,
			status:    string(domainagg.CodeConflict),
			conflicts: 1,
		},
		{
			name:     "lock timeout",
			body:     RetryableError("lock timeout"),
			wantCode: domainagg.CodeRetryable,
			status:   string(domainagg.CodeRetryable),
			retries:  1,
		},
		{
			name:     "driver failure",
			body:     errors.New("disk on fire"),
			wantCode: domainagg.CodeInternal,
			status:   string(domainagg.CodeInternal),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "roadmap.test",
				func(_ dbctx.Context) error { return tc.body })
			if tc.body == nil {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
			} else if !domainagg.IsCode(err, tc.wantCode) {
				t.Fatalf("code: want=%s got=%v", tc.wantCode, err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "roadmap.test" || hooks.Operations[0].Status != tc.status {
				t.Fatalf("operations: want one roadmap.test/%s got=%+v", tc.status, hooks.Operations)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("counters: want conflicts=%d retries=%d got=%v %v", tc.conflicts, tc.retries, hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteKeepsFieldErrors(t *testing.T) {
	fields := []domainagg.FieldError{
		{Field: "tasks[0].dateEnd", Message: "bad range"},
		{Field: "sections[1].milestoneId", Message: "unknown milestone"},
	}
	err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: &spyHooks{}}, "roadmap.reconcile",
		func(_ dbctx.Context) error { return domainagg.Validation("roadmap.reconcile", fields...) })
	got := domainagg.FieldsOf(err)
	if len(got) != 2 || got[1].Field != "sections[1].milestoneId" {
		t.Fatalf("fields: want=%v got=%v", fields, got)
	}
}

func TestExecuteWriteDefaultsOperationName(t *testing.T) {
	hooks := &spyHooks{}
	if err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "  ",
		func(_ dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("op name: want=aggregate.write got=%+v", hooks.Operations)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":      {nil, "success"},
		"deadline": {context.DeadlineExceeded, string(domainagg.CodeRetryable)},
		"canceled": {context.Canceled, string(domainagg.CodeRetryable)},
		"plain":    {errors.New("x"), string(domainagg.CodeInternal)},
	}
	for name, tc := range cases {
		if got := aggregateErrorStatus(tc.err); got != tc.want {
			t.Fatalf("%s status: want=%s got=%s", name, tc.want, got)
		}
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) { h.Conflicts = append(h.Conflicts, name) }

func (h *spyHooks) IncRetry(name string) { h.Retries = append(h.Retries, name) }

package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerCommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("counters: begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerRollsBackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error { return bodyErr })
	if !errors.Is(err, bodyErr) {
		t.Fatalf("want body err got=%v", err)
	}
	if r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("counters: commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerFailBeginSkipsBody(t *testing.T) {
	beginErr := errors.New("no connection")
	r := &InjectedTxRunner{FailBegin: beginErr}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, beginErr) || called {
		t.Fatalf("want begin err without body, got err=%v called=%v", err, called)
	}
}

type recordingRunner struct{ calls int }

func (r *recordingRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.calls++
	return fn(dbctx.Context{Ctx: ctx})
}

func TestInjectedTxRunnerFailCommitThroughDelegate(t *testing.T) {
	commitErr := errors.New("commit failed")
	delegate := &recordingRunner{}
	r := &InjectedTxRunner{Delegate: delegate, FailCommit: commitErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil })
	if !errors.Is(err, commitErr) {
		t.Fatalf("want commit err got=%v", err)
	}
	if delegate.calls != 1 || r.RollbackCalls != 1 || r.CommitCalls != 0 {
		t.Fatalf("counters: delegate=%d rollback=%d commit=%d", delegate.calls, r.RollbackCalls, r.CommitCalls)
	}
}

package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/roadmap-backend/internal/data/aggregates"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

// InjectedTxRunner injects transaction failures into aggregate writes. With a
// Delegate the body runs inside a real transaction and an injected commit
// failure rolls that transaction back; without one the body runs bare.
type InjectedTxRunner struct {
	mu sync.Mutex

	Delegate aggregates.TxRunner

	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit, delegate := r.FailBegin, r.FailCommit, r.Delegate
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}

	var bodyErr error
	run := func(dbc dbctx.Context) error {
		if fn != nil {
			if bodyErr = fn(dbc); bodyErr != nil {
				return bodyErr
			}
		}
		return failCommit
	}

	var err error
	if delegate != nil {
		err = delegate.InTx(ctx, run)
	} else {
		err = run(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		if bodyErr == nil && failCommit != nil && !errors.Is(err, failCommit) {
			return errors.Join(failCommit, err)
		}
		return err
	}
	r.CommitCalls++
	return nil
}

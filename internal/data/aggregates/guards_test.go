package aggregates

import (
	"context"
	"testing"

	repotest "github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

func TestRowGuardUpdateWhere(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	rm := repotest.SeedRoadmap(t, ctx, db, repotest.RoadmapSeed{IsDraft: true})
	g := NewRowGuard(db)
	dbc := dbctx.Context{Ctx: ctx}

	ok, err := g.UpdateWhere(dbc, "roadmap", rm.ID, map[string]any{"is_draft": true}, map[string]any{"is_draft": false})
	if err != nil || !ok {
		t.Fatalf("first guarded update: want=(true,nil) got=(%v,%v)", ok, err)
	}
	ok, err = g.UpdateWhere(dbc, "roadmap", rm.ID, map[string]any{"is_draft": true}, map[string]any{"is_draft": false})
	if err != nil || ok {
		t.Fatalf("second guarded update: want=(false,nil) got=(%v,%v)", ok, err)
	}

	var got types.Roadmap
	if err := db.WithContext(ctx).Where("id = ?", rm.ID).Take(&got).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.IsDraft {
		t.Fatalf("is_draft: want=false got=true")
	}
}

func TestRequireGuardSuccess(t *testing.T) {
	if err := RequireGuardSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := MapError("op", RequireGuardSuccess(false, "stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

package roadmap

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

func TestAuditLogRepoFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewAuditLogRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	user := uuid.New()
	day := time.Date(2025, 2, 1, 15, 0, 0, 0, time.UTC)
	_, err := repo.Create(dbc, []*types.AuditLog{
		{ID: uuid.New(), UserID: user, ActivityAction: "Roadmap created", CreatedAt: day},
		{ID: uuid.New(), UserID: user, ActivityAction: "Roadmap updated", CreatedAt: day.Add(time.Hour)},
		{ID: uuid.New(), UserID: user, ActivityAction: "Roadmap deleted", CreatedAt: day.Add(24 * time.Hour)},
		{ID: uuid.New(), UserID: uuid.New(), ActivityAction: "Roadmap created", CreatedAt: day},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := repo.Count(dbc, AuditFilter{UserID: user})
	if err != nil || count != 3 {
		t.Fatalf("Count(user): want=3 got=%d err=%v", count, err)
	}
	count, _ = repo.Count(dbc, AuditFilter{UserID: user, Action: "created"})
	if count != 1 {
		t.Fatalf("Count(created): want=1 got=%d", count)
	}
	count, _ = repo.Count(dbc, AuditFilter{UserID: user, Search: "ROADMAP"})
	if count != 3 {
		t.Fatalf("Count(search): want=3 got=%d", count)
	}
	d := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	count, _ = repo.Count(dbc, AuditFilter{UserID: user, Day: &d})
	if count != 2 {
		t.Fatalf("Count(day): want=2 got=%d", count)
	}

	rows, err := repo.List(dbc, AuditFilter{UserID: user}, Page{OrderBy: "created_at", Asc: false, Limit: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 3 || rows[0].ActivityAction != "Roadmap deleted" {
		t.Fatalf("List: unexpected order")
	}
}

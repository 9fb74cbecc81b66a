package services

import (
	"context"
	"testing"

	repotest "github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func TestDashboardSummarizeExample(t *testing.T) {
	st := newTestStack(t)
	seedDashboardExample(t, st.db)

	got, err := st.dashboard.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := DashboardSummary{Total: 3, Completed: 1, Draft: 1, Published: 2, NearDue: 1, Overdue: 1}
	if *got != want {
		t.Fatalf("summary: want=%+v got=%+v", want, *got)
	}
}

func TestDashboardIgnoresDeletedAndTasklessRoadmaps(t *testing.T) {
	st := newTestStack(t)
	ctx := context.Background()
	repotest.SeedRoadmap(t, ctx, st.db, repotest.RoadmapSeed{Title: "Empty"})
	gone, _, _, _ := repotest.SeedTree(t, ctx, st.db, repotest.RoadmapSeed{Title: "Gone"}, svcNow.Add(-days(1)))
	repotest.MarkDeleted(t, ctx, st.db, &types.Roadmap{}, gone.ID)
	_, _, _, tasks := repotest.SeedTree(t, ctx, st.db, repotest.RoadmapSeed{Title: "Late"}, svcNow.Add(-days(1)), svcNow.Add(days(2)))
	repotest.MarkDeleted(t, ctx, st.db, &types.Task{}, tasks[1].ID)

	got, err := st.dashboard.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := DashboardSummary{Total: 2, Published: 2, Overdue: 1}
	if *got != want {
		t.Fatalf("summary: want=%+v got=%+v", want, *got)
	}
}

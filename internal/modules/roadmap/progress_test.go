package roadmap

import (
	"testing"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func TestRollupPercentFloors(t *testing.T) {
	cases := []struct {
		completed, total int
		wantPct          int
		wantDone         bool
	}{
		{0, 0, 0, false},
		{0, 3, 0, false},
		{1, 3, 33, false},
		{2, 3, 66, false},
		{3, 3, 100, true},
		{1, 2, 50, false},
	}
	for _, tc := range cases {
		r := Rollup{Completed: tc.completed, Total: tc.total}
		if got := r.Percent(); got != tc.wantPct {
			t.Fatalf("Percent(%d/%d): want=%d got=%d", tc.completed, tc.total, tc.wantPct, got)
		}
		if got := r.Complete(); got != tc.wantDone {
			t.Fatalf("Complete(%d/%d): want=%v got=%v", tc.completed, tc.total, tc.wantDone, got)
		}
	}
}

func TestCompletionRulesAreVacuousForEmptyContainers(t *testing.T) {
	if !SectionCompleted(nil) {
		t.Fatalf("SectionCompleted(empty): want=true got=false")
	}
	if !MilestoneCompleted(nil) {
		t.Fatalf("MilestoneCompleted(empty): want=true got=false")
	}
	if SectionCompleted([]*types.Task{{IsCompleted: true}, {IsCompleted: false}}) {
		t.Fatalf("SectionCompleted(mixed): want=false got=true")
	}
}

func TestRoadmapProgressIgnoresDeletedBranches(t *testing.T) {
	b := newTreeBuilder()
	m1 := b.milestone("m1")
	s1 := b.section(m1, "s1")
	done := b.task(s1, "done", testNow)
	done.IsCompleted = true
	b.task(s1, "open", testNow)

	m2 := b.milestone("m2")
	m2.IsDeleted = true
	s2 := b.section(m2, "s2")
	b.task(s2, "hidden", testNow)

	deletedTask := b.task(s1, "deleted", testNow)
	deletedTask.IsDeleted = true

	tree := b.build()
	complete, pct := RoadmapProgress(tree)
	if pct != 50 || complete {
		t.Fatalf("RoadmapProgress: want=(false,50) got=(%v,%d)", complete, pct)
	}
	complete, pct = MilestoneProgress(tree, m1.ID)
	if pct != 50 || complete {
		t.Fatalf("MilestoneProgress: want=(false,50) got=(%v,%d)", complete, pct)
	}
}

func TestRoadmapProgressEmptyTreeIsZero(t *testing.T) {
	b := newTreeBuilder()
	m := b.milestone("m")
	b.section(m, "empty")
	complete, pct := RoadmapProgress(b.build())
	if complete || pct != 0 {
		t.Fatalf("RoadmapProgress(empty): want=(false,0) got=(%v,%d)", complete, pct)
	}
}

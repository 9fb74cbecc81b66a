package roadmap

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClassify(t *testing.T) {
	day := 24 * time.Hour
	cases := []struct {
		name string
		due  time.Time
		want DueStatus
	}{
		{"zero", time.Time{}, DueNone},
		{"yesterday", testNow.Add(-day), DueOverdue},
		{"now", testNow, DueLater},
		{"in three days", testNow.Add(3 * day), DueNear},
		{"window edge", testNow.Add(7 * day), DueNear},
		{"past window", testNow.Add(7*day + time.Second), DueLater},
	}
	for _, tc := range cases {
		if got := Classify(tc.due, testNow, DefaultNearDueWindow); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
}

func TestLatestDuePicksMaxPerRoadmap(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []TaskDue{
		{RoadmapID: a, DateEnd: testNow.Add(-time.Hour)},
		{RoadmapID: a, DateEnd: testNow.Add(time.Hour)},
		{RoadmapID: b, DateEnd: testNow.Add(-2 * time.Hour)},
	}
	got := LatestDue(rows)
	if len(got) != 2 {
		t.Fatalf("len: want=2 got=%d", len(got))
	}
	if !got[a].Equal(testNow.Add(time.Hour)) {
		t.Fatalf("a: want=%v got=%v", testNow.Add(time.Hour), got[a])
	}
	if !got[b].Equal(testNow.Add(-2 * time.Hour)) {
		t.Fatalf("b: want=%v got=%v", testNow.Add(-2*time.Hour), got[b])
	}
}

func TestTreeDueSkipsDeletedTasks(t *testing.T) {
	b := newTreeBuilder()
	m := b.milestone("m")
	s := b.section(m, "s")
	b.task(s, "a", testNow)
	late := b.task(s, "late", testNow.Add(48*time.Hour))
	late.IsDeleted = true
	if got := TreeDue(b.build()); !got.Equal(testNow) {
		t.Fatalf("TreeDue: want=%v got=%v", testNow, got)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	repotest "github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

func listTitles(t *testing.T, qs QueryService, q ListRoadmapsQuery) []string {
	t.Helper()
	if q.SortBy == "" {
		q.SortBy = "title"
		q.Asc = intPtr(1)
	}
	res, err := qs.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List(%+v): %v", q, err)
	}
	out := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, it.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryListFilters(t *testing.T) {
	st := newTestStack(t)
	seedDashboardExample(t, st.db)

	cases := []struct {
		filter string
		want   []string
	}{
		{"", []string{"Alpha", "Beta", "Gamma"}},
		{"draft", []string{"Beta"}},
		{"published", []string{"Alpha", "Gamma"}},
		{"completed", []string{"Alpha"}},
		{"nearDue", []string{"Alpha"}},
		// overdue keeps drafts
		{"OVERDUE", []string{"Beta", "Gamma"}},
	}
	for _, tc := range cases {
		got := listTitles(t, st.query, ListRoadmapsQuery{Filter: tc.filter})
		if !equalStrings(got, tc.want) {
			t.Fatalf("filter %q: want=%v got=%v", tc.filter, tc.want, got)
		}
	}
}

func TestQueryListNearDueExcludesDrafts(t *testing.T) {
	st := newTestStack(t)
	ctx := context.Background()
	repotest.SeedTree(t, ctx, st.db, repotest.RoadmapSeed{Title: "Draft soon", IsDraft: true}, svcNow.Add(days(2)))
	repotest.SeedTree(t, ctx, st.db, repotest.RoadmapSeed{Title: "Live soon"}, svcNow.Add(days(7)))
	repotest.SeedTree(t, ctx, st.db, repotest.RoadmapSeed{Title: "Live later"}, svcNow.Add(days(8)))

	got := listTitles(t, st.query, ListRoadmapsQuery{Filter: "neardue"})
	if !equalStrings(got, []string{"Live soon"}) {
		t.Fatalf("nearDue: want=[Live soon] got=%v", got)
	}
}

func TestQueryListSearchAndCreatedAfter(t *testing.T) {
	st := newTestStack(t)
	seedDashboardExample(t, st.db)

	if got := listTitles(t, st.query, ListRoadmapsQuery{Search: "AMM"}); !equalStrings(got, []string{"Gamma"}) {
		t.Fatalf("search: want=[Gamma] got=%v", got)
	}
	after := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)
	if got := listTitles(t, st.query, ListRoadmapsQuery{CreatedAfter: &after}); !equalStrings(got, []string{"Beta", "Gamma"}) {
		t.Fatalf("createdAfter: want=[Beta Gamma] got=%v", got)
	}
}

func TestQueryListPagingAndSorting(t *testing.T) {
	st := newTestStack(t)
	seedDashboardExample(t, st.db)

	res, err := st.query.List(context.Background(), ListRoadmapsQuery{PageSize: intPtr(5)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.TotalCount != 3 || res.TotalPages != 1 || res.CurrentPage != 1 || res.PageSize != 5 {
		t.Fatalf("page meta: got=%+v", res)
	}
	// default sort is createdAt descending
	if res.Items[0].Title != "Gamma" || res.Items[2].Title != "Alpha" {
		t.Fatalf("default order: got=%s..%s", res.Items[0].Title, res.Items[2].Title)
	}
	if res.Items[0].DueStatus != "overdue" || res.Items[2].DueStatus != "near_due" {
		t.Fatalf("due status: got=%s/%s", res.Items[0].DueStatus, res.Items[2].DueStatus)
	}

	if got := listTitles(t, st.query, ListRoadmapsQuery{SortBy: "Title", Asc: intPtr(0)}); !equalStrings(got, []string{"Gamma", "Beta", "Alpha"}) {
		t.Fatalf("title desc: got=%v", got)
	}
}

func TestQueryListValidation(t *testing.T) {
	st := newTestStack(t)
	seedDashboardExample(t, st.db)

	cases := []struct {
		name  string
		q     ListRoadmapsQuery
		field string
	}{
		{"page beyond total", ListRoadmapsQuery{PageNumber: intPtr(2), PageSize: intPtr(5)}, "pageNumber"},
		{"page size step", ListRoadmapsQuery{PageSize: intPtr(7)}, "pageSize"},
		{"page size max", ListRoadmapsQuery{PageSize: intPtr(105)}, "pageSize"},
		{"unknown sort", ListRoadmapsQuery{SortBy: "progress"}, "sortBy"},
		{"asc out of range", ListRoadmapsQuery{Asc: intPtr(2)}, "asc"},
		{"unknown filter", ListRoadmapsQuery{Filter: "archived"}, "filter"},
		{"negative page", ListRoadmapsQuery{PageNumber: intPtr(-1)}, "pageNumber"},
		{"explicit zero page", ListRoadmapsQuery{PageNumber: intPtr(0)}, "pageNumber"},
		{"explicit zero size", ListRoadmapsQuery{PageSize: intPtr(0)}, "pageSize"},
	}
	for _, tc := range cases {
		_, err := st.query.List(context.Background(), tc.q)
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%s: want=validation got=%v", tc.name, err)
		}
		fields := domainagg.FieldsOf(err)
		if len(fields) != 1 || fields[0].Field != tc.field {
			t.Fatalf("%s: want field %s got=%+v", tc.name, tc.field, fields)
		}
	}
}

func TestQueryListEmptyResultAllowsFirstPage(t *testing.T) {
	st := newTestStack(t)
	res, err := st.query.List(context.Background(), ListRoadmapsQuery{PageNumber: intPtr(3)})
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if res.TotalCount != 0 || res.TotalPages != 0 || len(res.Items) != 0 {
		t.Fatalf("empty page: got=%+v", res)
	}
}

package roadmap

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

func TestPlanCreateBuildsNestedTree(t *testing.T) {
	owner := uuid.New()
	tree, batch, err := PlanCreate(domainagg.CreateRoadmapInput{
		CreatedBy:   owner,
		Title:       " Launch ",
		Description: "ship it",
		Milestones: []domainagg.NewMilestone{{
			Name: "m1",
			Sections: []domainagg.NewSection{{
				Name: "s1",
				Tasks: []domainagg.NewTask{
					{Name: "a", DateStart: testNow, DateEnd: testNow.Add(time.Hour)},
					{Name: "b", DateStart: testNow, DateEnd: testNow.Add(2 * time.Hour)},
				},
			}},
		}},
	}, testNow, nil)
	if err != nil {
		t.Fatalf("PlanCreate: %v", err)
	}
	if tree.Roadmap.Title != "Launch" || tree.Roadmap.CreatedBy != owner || tree.Roadmap.IsDraft {
		t.Fatalf("roadmap: got=%+v", tree.Roadmap)
	}
	inserts := batch.Inserts()
	if len(inserts) != 5 {
		t.Fatalf("inserts: want=5 got=%d", len(inserts))
	}
	if _, ok := inserts[0].(*types.Roadmap); !ok {
		t.Fatalf("first insert: want *Roadmap got=%T", inserts[0])
	}
	tasks := tree.AllActiveTasks()
	if len(tasks) != 2 || tasks[1].Position != 1 {
		t.Fatalf("tasks: want 2 ordered got=%d", len(tasks))
	}
	if !tree.Roadmap.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt: want=%v got=%v", testNow, tree.Roadmap.CreatedAt)
	}
}

func TestPlanCreateValidation(t *testing.T) {
	_, _, err := PlanCreate(domainagg.CreateRoadmapInput{
		Title: "",
		Milestones: []domainagg.NewMilestone{{Sections: []domainagg.NewSection{{Tasks: []domainagg.NewTask{
			{Name: "bad", DateStart: testNow, DateEnd: testNow.Add(-time.Hour)},
		}}}}},
	}, testNow, nil)
	fields := domainagg.FieldsOf(err)
	if len(fields) != 2 {
		t.Fatalf("fields: want=2 got=%v", fields)
	}
	if fields[0].Field != "title" || fields[1].Field != "milestones[0].sections[0].tasks[0].dateEnd" {
		t.Fatalf("fields: got=%v", fields)
	}

	_, _, err = PlanCreate(domainagg.CreateRoadmapInput{Title: "t"}, testNow, nil)
	if fields := domainagg.FieldsOf(err); len(fields) != 1 || fields[0].Field != "milestones" {
		t.Fatalf("published without milestones: got=%v", err)
	}

	if _, _, err := PlanCreate(domainagg.CreateRoadmapInput{Title: "t", IsDraft: true}, testNow, nil); err != nil {
		t.Fatalf("draft without milestones: want=nil got=%v", err)
	}
}

func TestPlanPublish(t *testing.T) {
	b := newTreeBuilder()
	tree := b.build()
	_, err := PlanPublish(tree, domainagg.PublishRoadmapInput{RoadmapID: b.rm.ID}, testNow)
	if fields := domainagg.FieldsOf(err); len(fields) != 1 || fields[0].Field != "milestones" {
		t.Fatalf("no milestones: got=%v", err)
	}

	b = newTreeBuilder()
	b.milestone("m")
	tree = b.build()
	if _, err := PlanPublish(tree, domainagg.PublishRoadmapInput{RoadmapID: b.rm.ID}, testNow); err != nil {
		t.Fatalf("PlanPublish: %v", err)
	}
	if b.rm.IsDraft {
		t.Fatalf("IsDraft: want=false got=true")
	}
	_, err = PlanPublish(tree, domainagg.PublishRoadmapInput{RoadmapID: b.rm.ID}, testNow)
	if fields := domainagg.FieldsOf(err); len(fields) != 1 || fields[0].Field != "isDraft" {
		t.Fatalf("already published: got=%v", err)
	}
}

func TestPlanDeleteCascades(t *testing.T) {
	b := newTreeBuilder()
	m := b.milestone("m")
	s := b.section(m, "s")
	b.task(s, "a", testNow)
	gone := b.task(s, "gone", testNow)
	gone.IsDeleted = true
	tree := b.build()

	batch, err := PlanDelete(tree, domainagg.DeleteRoadmapInput{RoadmapID: b.rm.ID}, testNow)
	if err != nil {
		t.Fatalf("PlanDelete: %v", err)
	}
	if _, _, deleted := batch.Counts(); deleted != 4 {
		t.Fatalf("soft deleted: want=4 got=%d", deleted)
	}
	if !b.rm.IsDeleted || !m.IsDeleted || !s.IsDeleted {
		t.Fatalf("cascade incomplete: roadmap=%v milestone=%v section=%v", b.rm.IsDeleted, m.IsDeleted, s.IsDeleted)
	}
	if _, err := PlanDelete(tree, domainagg.DeleteRoadmapInput{RoadmapID: b.rm.ID}, testNow); !domainagg.IsCode(err, domainagg.CodeAlreadyDeleted) {
		t.Fatalf("second delete: want=already_deleted got=%v", err)
	}
}

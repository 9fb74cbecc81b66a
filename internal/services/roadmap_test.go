package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

func exampleCreateRequest(title string) CreateRoadmapRequest {
	return CreateRoadmapRequest{
		Title:       title,
		Description: "two tasks",
		Milestones: []CreateMilestoneRequest{{
			Name:        "only milestone",
			Description: "d",
			Sections: []CreateSectionRequest{{
				Name:        "only section",
				Description: "d",
				Tasks: []CreateTaskRequest{
					{Name: "A", DateStart: svcNow, DateEnd: svcNow.Add(days(3))},
					{Name: "B", DateStart: svcNow.Add(-days(3)), DateEnd: svcNow.Add(-days(1))},
				},
			}},
		}},
	}
}

func TestRoadmapServicePropagationExample(t *testing.T) {
	st := newTestStack(t)
	ctx := st.ctx()

	view, err := st.roadmaps.Create(ctx, exampleCreateRequest("Example"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Progress != 0 || view.CreatedBy != st.userID {
		t.Fatalf("created view: progress=%d createdBy=%s", view.Progress, view.CreatedBy)
	}
	if view.DueDate == nil || !view.DueDate.Equal(svcNow.Add(days(3))) {
		t.Fatalf("due date: got=%v", view.DueDate)
	}
	tasks := view.Milestones[0].Sections[0].Tasks
	if len(tasks) != 2 || tasks[0].Name != "A" {
		t.Fatalf("tasks: got=%+v", tasks)
	}

	res, err := st.roadmaps.SetCompletion(ctx, view.ID, CompletionRequest{Type: "Task", TaskID: tasks[0].ID, IsChecked: true})
	if err != nil {
		t.Fatalf("SetCompletion A: %v", err)
	}
	if res.Progress != 50 || res.IsCompleted {
		t.Fatalf("after A: want=(50,false) got=(%d,%v)", res.Progress, res.IsCompleted)
	}
	details, err := st.roadmaps.Details(ctx, view.ID)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	m := details.Milestones[0]
	if m.Progress != 50 || m.IsCompleted {
		t.Fatalf("milestone after A: want=(50,false) got=(%d,%v)", m.Progress, m.IsCompleted)
	}

	res, err = st.roadmaps.SetCompletion(ctx, view.ID, CompletionRequest{Type: "task", TaskID: tasks[1].ID, IsChecked: true})
	if err != nil {
		t.Fatalf("SetCompletion B: %v", err)
	}
	if res.Progress != 100 || !res.IsCompleted {
		t.Fatalf("after B: want=(100,true) got=(%d,%v)", res.Progress, res.IsCompleted)
	}
	details, err = st.roadmaps.Details(ctx, view.ID)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if !details.IsCompleted || !details.Milestones[0].IsCompleted || !details.Milestones[0].Sections[0].IsCompleted {
		t.Fatalf("completion flags: %+v", details)
	}

	if len(st.events) != 3 || st.events[0].Type != realtime.EventRoadmapCreated || st.events[2].Type != realtime.EventRoadmapCompletionChanged {
		t.Fatalf("events: got=%+v", st.events)
	}
	if st.events[0].UserID != st.userID || st.events[0].RoadmapID != view.ID {
		t.Fatalf("event identity: got=%+v", st.events[0])
	}
	logs, err := st.audit.ListLogs(context.Background(), ListAuditLogsQuery{})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if logs.TotalCount != 3 {
		t.Fatalf("audit entries: want=3 got=%d", logs.TotalCount)
	}
}

func TestRoadmapServicePatchHidesDeletedNodes(t *testing.T) {
	st := newTestStack(t)
	ctx := st.ctx()

	view, err := st.roadmaps.Create(ctx, exampleCreateRequest("Patch me"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	taskB := view.Milestones[0].Sections[0].Tasks[1]
	title := "Patched"
	patched, err := st.roadmaps.Patch(ctx, view.ID, PatchRoadmapRequest{
		Roadmap: &RoadmapFieldsRequest{Title: &title},
		Tasks:   []TaskPatchRequest{{TaskID: taskB.ID, IsDeleted: true}},
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if patched.Title != "Patched" {
		t.Fatalf("title: want=Patched got=%s", patched.Title)
	}
	tasks := patched.Milestones[0].Sections[0].Tasks
	if len(tasks) != 1 || tasks[0].Name != "A" {
		t.Fatalf("active tasks after delete: got=%+v", tasks)
	}
	if patched.DueDate == nil || !patched.DueDate.Equal(svcNow.Add(days(3))) {
		t.Fatalf("due date after delete: got=%v", patched.DueDate)
	}
}

func TestRoadmapServiceRejectsInvalidInputBeforeWriting(t *testing.T) {
	st := newTestStack(t)
	ctx := st.ctx()

	req := exampleCreateRequest("")
	if _, err := st.roadmaps.Create(ctx, req); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("empty title: want=validation got=%v", err)
	}
	if _, err := st.roadmaps.SetCompletion(ctx, uuid.New(), CompletionRequest{Type: "chapter"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad type: want=validation got=%v", err)
	}
	if len(st.events) != 0 {
		t.Fatalf("no events expected, got=%+v", st.events)
	}
}

func TestRoadmapServiceLifecycle(t *testing.T) {
	st := newTestStack(t)
	ctx := st.ctx()

	req := exampleCreateRequest("Lifecycle")
	req.IsDraft = true
	view, err := st.roadmaps.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := st.roadmaps.Publish(ctx, view.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := st.roadmaps.Delete(ctx, view.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.roadmaps.Details(ctx, view.ID); !domainagg.IsCode(err, domainagg.CodeAlreadyDeleted) {
		t.Fatalf("details after delete: want=already_deleted got=%v", err)
	}
	if _, err := st.roadmaps.Details(ctx, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("details unknown: want=not_found got=%v", err)
	}
	if len(st.events) != 3 || st.events[2].Type != realtime.EventRoadmapDeleted {
		t.Fatalf("events: got=%+v", st.events)
	}
}

func TestRoadmapServicePatchRejectsIDOwnedByAnotherNode(t *testing.T) {
	st := newTestStack(t)
	ctx := st.ctx()

	view, err := st.roadmaps.Create(ctx, exampleCreateRequest("Clashing ids"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tasks := view.Milestones[0].Sections[0].Tasks
	if _, err := st.roadmaps.SetCompletion(ctx, view.ID, CompletionRequest{Type: "task", TaskID: tasks[0].ID, IsChecked: true}); err != nil {
		t.Fatalf("SetCompletion: %v", err)
	}

	name := "m2"
	_, err = st.roadmaps.Patch(ctx, view.ID, PatchRoadmapRequest{
		Milestones: []MilestonePatchRequest{{MilestoneID: view.ID, Name: &name}},
		Tasks:      []TaskPatchRequest{{TaskID: tasks[1].ID, IsDeleted: true}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("Patch: want=validation got=%v", err)
	}
	fields := domainagg.FieldsOf(err)
	if len(fields) != 1 || fields[0].Field != "milestones[0].milestoneId" {
		t.Fatalf("fields: got=%v", fields)
	}

	details, err := st.roadmaps.Details(ctx, view.ID)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.Progress != 50 || len(details.Milestones) != 1 || len(details.Milestones[0].Sections[0].Tasks) != 2 {
		t.Fatalf("persisted tree changed: progress=%d milestones=%d", details.Progress, len(details.Milestones))
	}
}

package roadmap

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

type Op string

const (
	OpInsert     Op = "insert"
	OpSet        Op = "set"
	OpTouch      Op = "touch"
	OpSoftDelete Op = "soft_delete"
)

// Field is a mutable column. Values are the persisted column names.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldName        Field = "name"
	FieldDateStart   Field = "date_start"
	FieldDateEnd     Field = "date_end"
	FieldIsCompleted Field = "is_completed"
	FieldProgress    Field = "progress"
	FieldIsDraft     Field = "is_draft"
)

// Mutation is one typed command against the tree.
//
//	OpInsert:     Node holds the new *types.Roadmap, *types.Milestone, *types.Section or *types.Task.
//	OpSet:        Field/Value on row Kind/ID.
//	OpTouch:      stamps updated_at only.
//	OpSoftDelete: marks Kind/ID deleted.
type Mutation struct {
	Op    Op
	Kind  domainagg.NodeType
	ID    uuid.UUID
	Field Field
	Value any
	Node  any
}

// RowUpdate is the coalesced column set for one existing row.
type RowUpdate struct {
	Kind    domainagg.NodeType
	ID      uuid.UUID
	Columns map[string]any
}

// Batch records mutations in order and applies each one to the snapshot as
// it is recorded, so later planning steps see earlier ones.
type Batch struct {
	At        time.Time
	tree      *Tree
	mutations []Mutation
}

func newBatch(t *Tree, at time.Time) *Batch {
	return &Batch{At: at.UTC(), tree: t}
}

func (b *Batch) Mutations() []Mutation { return b.mutations }

func (b *Batch) Len() int { return len(b.mutations) }

// Inserts returns the inserted nodes in insertion order. Nodes reflect any
// later Set commands recorded against them.
func (b *Batch) Inserts() []any {
	var out []any
	for _, m := range b.mutations {
		if m.Op == OpInsert {
			out = append(out, m.Node)
		}
	}
	return out
}

// rowKey addresses one row; ids are only unique within a table.
type rowKey struct {
	Kind domainagg.NodeType
	ID   uuid.UUID
}

// Updates coalesces set, touch and soft-delete commands per existing row,
// in first-seen order. Rows inserted by this batch are skipped.
func (b *Batch) Updates() []RowUpdate {
	inserted := map[rowKey]bool{}
	index := map[rowKey]int{}
	var out []RowUpdate
	for _, m := range b.mutations {
		key := rowKey{Kind: m.Kind, ID: m.ID}
		if m.Op == OpInsert {
			inserted[key] = true
			continue
		}
		if inserted[key] {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, RowUpdate{Kind: m.Kind, ID: m.ID, Columns: map[string]any{}})
		}
		cols := out[i].Columns
		switch m.Op {
		case OpSet:
			cols[string(m.Field)] = m.Value
		case OpSoftDelete:
			cols["is_deleted"] = true
		}
		cols["updated_at"] = b.At
	}
	return out
}

// Counts reports how many rows were inserted, updated and soft-deleted.
func (b *Batch) Counts() (inserted, updated, softDeleted int) {
	for _, u := range b.Updates() {
		if deleted, _ := u.Columns["is_deleted"].(bool); deleted {
			softDeleted++
		} else {
			updated++
		}
	}
	return len(b.Inserts()), updated, softDeleted
}

func (b *Batch) insert(kind domainagg.NodeType, id uuid.UUID, node any) {
	switch n := node.(type) {
	case *types.Roadmap:
		n.CreatedAt, n.UpdatedAt = b.At, b.At
		b.tree.Roadmap = n
	case *types.Milestone:
		n.CreatedAt, n.UpdatedAt = b.At, b.At
		b.tree.addMilestone(n)
	case *types.Section:
		n.CreatedAt, n.UpdatedAt = b.At, b.At
		b.tree.addSection(n)
	case *types.Task:
		n.CreatedAt, n.UpdatedAt = b.At, b.At
		b.tree.addTask(n)
	default:
		panic(fmt.Sprintf("roadmap: unsupported insert node %T", node))
	}
	b.mutations = append(b.mutations, Mutation{Op: OpInsert, Kind: kind, ID: id, Node: node})
}

func (b *Batch) set(kind domainagg.NodeType, id uuid.UUID, field Field, value any) {
	b.applySet(kind, id, field, value)
	b.mutations = append(b.mutations, Mutation{Op: OpSet, Kind: kind, ID: id, Field: field, Value: value})
}

func (b *Batch) touch(kind domainagg.NodeType, id uuid.UUID) {
	b.stamp(kind, id)
	b.mutations = append(b.mutations, Mutation{Op: OpTouch, Kind: kind, ID: id})
}

func (b *Batch) softDelete(kind domainagg.NodeType, id uuid.UUID) {
	switch kind {
	case domainagg.NodeRoadmap:
		b.tree.Roadmap.IsDeleted = true
	case domainagg.NodeMilestone:
		b.tree.milestones[id].IsDeleted = true
	case domainagg.NodeSection:
		b.tree.sections[id].IsDeleted = true
	case domainagg.NodeTask:
		b.tree.tasks[id].IsDeleted = true
	}
	b.stamp(kind, id)
	b.mutations = append(b.mutations, Mutation{Op: OpSoftDelete, Kind: kind, ID: id})
}

func (b *Batch) stamp(kind domainagg.NodeType, id uuid.UUID) {
	switch kind {
	case domainagg.NodeRoadmap:
		b.tree.Roadmap.UpdatedAt = b.At
	case domainagg.NodeMilestone:
		b.tree.milestones[id].UpdatedAt = b.At
	case domainagg.NodeSection:
		b.tree.sections[id].UpdatedAt = b.At
	case domainagg.NodeTask:
		b.tree.tasks[id].UpdatedAt = b.At
	}
}

func (b *Batch) applySet(kind domainagg.NodeType, id uuid.UUID, field Field, value any) {
	b.stamp(kind, id)
	switch kind {
	case domainagg.NodeRoadmap:
		rm := b.tree.Roadmap
		switch field {
		case FieldTitle:
			rm.Title = value.(string)
		case FieldDescription:
			rm.Description = value.(string)
		case FieldIsCompleted:
			rm.IsCompleted = value.(bool)
		case FieldProgress:
			rm.Progress = value.(int)
		case FieldIsDraft:
			rm.IsDraft = value.(bool)
		default:
			panic(fmt.Sprintf("roadmap: field %s not settable on roadmap", field))
		}
	case domainagg.NodeMilestone:
		m := b.tree.milestones[id]
		switch field {
		case FieldName:
			m.Name = value.(string)
		case FieldDescription:
			m.Description = value.(string)
		case FieldIsCompleted:
			m.IsCompleted = value.(bool)
		case FieldProgress:
			m.Progress = value.(int)
		default:
			panic(fmt.Sprintf("roadmap: field %s not settable on milestone", field))
		}
	case domainagg.NodeSection:
		s := b.tree.sections[id]
		switch field {
		case FieldName:
			s.Name = value.(string)
		case FieldDescription:
			s.Description = value.(string)
		case FieldIsCompleted:
			s.IsCompleted = value.(bool)
		default:
			panic(fmt.Sprintf("roadmap: field %s not settable on section", field))
		}
	case domainagg.NodeTask:
		tk := b.tree.tasks[id]
		switch field {
		case FieldName:
			tk.Name = value.(string)
		case FieldDateStart:
			tk.DateStart = value.(time.Time)
		case FieldDateEnd:
			tk.DateEnd = value.(time.Time)
		case FieldIsCompleted:
			tk.IsCompleted = value.(bool)
		default:
			panic(fmt.Sprintf("roadmap: field %s not settable on task", field))
		}
	}
}

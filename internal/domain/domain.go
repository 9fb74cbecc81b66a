package domain

import (
	"github.com/yungbote/roadmap-backend/internal/domain/audit"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
)

type Roadmap = roadmap.Roadmap
type Milestone = roadmap.Milestone
type Section = roadmap.Section
type Task = roadmap.Task

type AuditLog = audit.AuditLog

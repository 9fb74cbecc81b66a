package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

// queryParams collects parse failures so one response reports all of them.
type queryParams struct {
	c    *gin.Context
	errs []domainagg.FieldError
}

func newQueryParams(c *gin.Context) *queryParams { return &queryParams{c: c} }

func (p *queryParams) String(name string) string {
	return strings.TrimSpace(p.c.Query(name))
}

// OptionalInt returns nil when the parameter is absent so service defaults
// apply; a present value, 0 included, is passed through for validation.
func (p *queryParams) OptionalInt(name string) *int {
	raw := p.String(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, domainagg.FieldError{Field: name, Message: name + " must be an integer"})
		return nil
	}
	return &n
}

// Time accepts RFC 3339 timestamps or plain YYYY-MM-DD dates (UTC midnight).
func (p *queryParams) Time(name string) *time.Time {
	raw := p.String(name)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	p.errs = append(p.errs, domainagg.FieldError{Field: name, Message: name + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp"})
	return nil
}

func (p *queryParams) Err(op string) error {
	if len(p.errs) == 0 {
		return nil
	}
	return domainagg.Validation(op, p.errs...)
}

func pathID(c *gin.Context, op string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainagg.Validation(op, domainagg.FieldError{Field: "roadmapId", Message: "roadmapId must be a uuid"})
	}
	return id, nil
}

func invalidBody(op string, err error) error {
	return domainagg.Validation(op, domainagg.FieldError{Field: "body", Message: "malformed JSON body: " + err.Error()})
}

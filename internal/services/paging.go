package services

import (
	"fmt"
	"sort"
	"strings"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

// PagedResult is one page of a filtered, ordered listing.
type PagedResult[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

// pageRules bounds the paging inputs of one listing endpoint.
type pageRules struct {
	maxPageNumber int
	maxPageSize   int
	step          int
}

func (r pageRules) check(pageNumber, pageSize int) []domainagg.FieldError {
	var errs []domainagg.FieldError
	if pageNumber < 1 {
		errs = append(errs, domainagg.FieldError{Field: "pageNumber", Message: "Page number must be at least 1."})
	} else if r.maxPageNumber > 0 && pageNumber > r.maxPageNumber {
		errs = append(errs, domainagg.FieldError{Field: "pageNumber", Message: fmt.Sprintf("Page number must not exceed %d.", r.maxPageNumber)})
	}
	switch {
	case pageSize <= 0:
		errs = append(errs, domainagg.FieldError{Field: "pageSize", Message: "Page size cannot be 0."})
	case r.step > 0 && pageSize%r.step != 0:
		errs = append(errs, domainagg.FieldError{Field: "pageSize", Message: fmt.Sprintf("Page size must be %d or a multiple of %d.", r.step, r.step)})
	case r.maxPageSize > 0 && pageSize > r.maxPageSize:
		errs = append(errs, domainagg.FieldError{Field: "pageSize", Message: fmt.Sprintf("Page size cannot be more than %d.", r.maxPageSize)})
	}
	return errs
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func checkAsc(asc int) []domainagg.FieldError {
	if asc != 0 && asc != 1 {
		return []domainagg.FieldError{{Field: "asc", Message: "Sort order must be 0 (descending) or 1 (ascending)."}}
	}
	return nil
}

// totalPages is ceil(total/pageSize).
func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// checkPageInRange rejects a page past the last one when any page exists.
func checkPageInRange(op string, pageNumber, pages int) error {
	if pages > 0 && pageNumber > pages {
		return domainagg.Validation(op, domainagg.FieldError{
			Field:   "pageNumber",
			Message: fmt.Sprintf("Page number %d is out of range. Maximum page number is %d.", pageNumber, pages),
		})
	}
	return nil
}

func allowedList(keys map[string]string) string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

package roadmap

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func lockingClause() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}

// updateExpectOne applies updates to the row with id and reports
// gorm.ErrRecordNotFound when no row matched.
func updateExpectOne(q *gorm.DB, id uuid.UUID, updates map[string]any) error {
	res := q.Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

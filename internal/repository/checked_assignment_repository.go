package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

// CheckedAssignmentRepository stores completion marks.
type CheckedAssignmentRepository struct {
	db *sqlx.DB
}

// NewCheckedAssignmentRepository constructs a checked assignment repository.
func NewCheckedAssignmentRepository(db *sqlx.DB) *CheckedAssignmentRepository {
	return &CheckedAssignmentRepository{db: db}
}

// ListByUser returns every mark of a student.
func (r *CheckedAssignmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.CheckedAssignment, error) {
	const query = `SELECT user_id, class_name, event_id FROM checked_assignments WHERE user_id = $1`
	var list []models.CheckedAssignment
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("list checked assignments: %w", err)
	}
	return list, nil
}

// Toggle removes the mark when present and creates it otherwise. It returns
// the resulting state.
func (r *CheckedAssignmentRepository) Toggle(ctx context.Context, mark models.CheckedAssignment) (checked bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteQuery = `DELETE FROM checked_assignments WHERE user_id = $1 AND class_name = $2 AND event_id = $3`
	res, err := tx.ExecContext(ctx, deleteQuery, mark.UserID, mark.ClassName, mark.EventID)
	if err != nil {
		return false, fmt.Errorf("uncheck assignment: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("uncheck assignment rows: %w", err)
	}

	if removed == 0 {
		const insertQuery = `INSERT INTO checked_assignments (user_id, class_name, event_id) VALUES ($1, $2, $3)`
		if _, err = tx.ExecContext(ctx, insertQuery, mark.UserID, mark.ClassName, mark.EventID); err != nil {
			return false, fmt.Errorf("check assignment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return removed == 0, nil
}

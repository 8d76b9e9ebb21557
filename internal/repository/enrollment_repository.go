package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

// EnrollmentRepository manages the student-class set and per-class colors.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll adds the class to the student's set and resets its color.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID int64, className string) error {
	const query = `INSERT INTO enrollments (user_id, class_name, color) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, class_name) DO UPDATE SET color = EXCLUDED.color`
	if _, err := r.db.ExecContext(ctx, query, userID, className, models.DefaultColor); err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}

// Unenroll removes the class from the student's set. Removing an absent class is a no-op.
func (r *EnrollmentRepository) Unenroll(ctx context.Context, userID int64, className string) error {
	const query = `DELETE FROM enrollments WHERE user_id = $1 AND class_name = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, className); err != nil {
		return fmt.Errorf("unenroll student: %w", err)
	}
	return nil
}

// SetColor overrides the color of an enrolled class. It reports whether the
// enrollment exists.
func (r *EnrollmentRepository) SetColor(ctx context.Context, userID int64, className, color string) (bool, error) {
	const query = `UPDATE enrollments SET color = $3 WHERE user_id = $1 AND class_name = $2`
	res, err := r.db.ExecContext(ctx, query, userID, className, color)
	if err != nil {
		return false, fmt.Errorf("set class color: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set class color rows: %w", err)
	}
	return affected > 0, nil
}

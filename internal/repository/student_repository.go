package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

const studentColumns = `user_id, calendar_id, color, professor, name`

// StudentRepository manages student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByUserID returns the profile of a user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a profile; an existing profile is left untouched.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (user_id, calendar_id, color, professor, name) VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO NOTHING`
	if student.Color == "" {
		student.Color = models.DefaultColor
	}
	if _, err := r.db.ExecContext(ctx, query, student.UserID, student.CalendarID, student.Color, student.Professor, student.Name); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// List returns every student ordered by user id.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY user_id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListByClass returns the students enrolled in className.
func (r *StudentRepository) ListByClass(ctx context.Context, className string) ([]models.Student, error) {
	const query = `SELECT s.user_id, s.calendar_id, s.color, s.professor, s.name FROM students s
        JOIN enrollments e ON e.user_id = s.user_id WHERE e.class_name = $1 ORDER BY s.user_id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, className); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return students, nil
}

// SetCalendarID stores the personal calendar only when none is set yet. It
// reports whether the row was updated.
func (r *StudentRepository) SetCalendarID(ctx context.Context, userID int64, calendarID string) (bool, error) {
	const query = `UPDATE students SET calendar_id = $2 WHERE user_id = $1 AND calendar_id = ''`
	res, err := r.db.ExecContext(ctx, query, userID, calendarID)
	if err != nil {
		return false, fmt.Errorf("set student calendar: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set student calendar rows: %w", err)
	}
	return affected > 0, nil
}

// UpdateColor sets the personal calendar color.
func (r *StudentRepository) UpdateColor(ctx context.Context, userID int64, color string) error {
	const query = `UPDATE students SET color = $2 WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, color); err != nil {
		return fmt.Errorf("update student color: %w", err)
	}
	return nil
}

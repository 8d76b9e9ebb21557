package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/assignment-organizer/internal/models"
)

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns every class ordered by name.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT name, calendar_id, professor_id, description FROM classes ORDER BY name COLLATE "C"`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListByStudent returns the classes a student is enrolled in, ordered by name.
func (r *ClassRepository) ListByStudent(ctx context.Context, userID int64) ([]models.EnrolledClass, error) {
	const query = `SELECT c.name, c.calendar_id, c.professor_id, c.description, e.color FROM enrollments e
        JOIN classes c ON c.name = e.class_name WHERE e.user_id = $1 ORDER BY c.name COLLATE "C"`
	var classes []models.EnrolledClass
	if err := r.db.SelectContext(ctx, &classes, query, userID); err != nil {
		return nil, fmt.Errorf("list classes by student: %w", err)
	}
	return classes, nil
}

// FindByName returns a class record by name.
func (r *ClassRepository) FindByName(ctx context.Context, name string) (*models.Class, error) {
	const query = `SELECT name, calendar_id, professor_id, description FROM classes WHERE name = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// ExistsByName checks if a class with the same name already exists.
func (r *ClassRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM classes WHERE name = $1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check class name: %w", err)
	}
	return true, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (name, calendar_id, professor_id, description) VALUES (:name, :calendar_id, :professor_id, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

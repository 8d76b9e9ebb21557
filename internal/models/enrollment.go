package models

// Enrollment links a student to a class and carries the per-class color.
type Enrollment struct {
	UserID    int64  `db:"user_id" json:"user_id"`
	ClassName string `db:"class_name" json:"class_name"`
	Color     string `db:"color" json:"color"`
}

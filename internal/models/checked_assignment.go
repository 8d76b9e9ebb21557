package models

// CheckedAssignment marks an event as completed by a student. ClassName is
// empty for personal events.
type CheckedAssignment struct {
	UserID    int64  `db:"user_id" json:"user_id"`
	ClassName string `db:"class_name" json:"class_name"`
	EventID   string `db:"event_id" json:"event_id"`
}

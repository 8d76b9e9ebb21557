package models

// DefaultColor is used for any calendar without an explicit color.
const DefaultColor = "#0052bd"

// Student is the per-user profile. CalendarID stays empty until the personal
// calendar is provisioned.
type Student struct {
	UserID     int64  `db:"user_id" json:"user_id"`
	CalendarID string `db:"calendar_id" json:"calendar_id"`
	Color      string `db:"color" json:"color"`
	Professor  bool   `db:"professor" json:"professor"`
	Name       string `db:"name" json:"name"`
}

// HasCalendar reports whether the personal calendar exists.
func (s Student) HasCalendar() bool {
	return s.CalendarID != ""
}

// StudentProfile is the caller's view of their own account.
type StudentProfile struct {
	Student
	Email   string          `json:"email"`
	Classes []EnrolledClass `json:"classes"`
}

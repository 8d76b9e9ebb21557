package models

// Class is a course with its own shared calendar. Names are unique and never change.
type Class struct {
	Name        string `db:"name" json:"name"`
	CalendarID  string `db:"calendar_id" json:"calendar_id"`
	ProfessorID int64  `db:"professor_id" json:"professor_id"`
	Description string `db:"description" json:"description"`
}

// EnrolledClass is a class together with the student's color for it.
type EnrolledClass struct {
	Class
	Color string `db:"color" json:"color"`
}

// ClassDirectory splits all classes by the caller's enrollment.
type ClassDirectory struct {
	Enrolled  []EnrolledClass `json:"enrolled"`
	Available []Class         `json:"available"`
}

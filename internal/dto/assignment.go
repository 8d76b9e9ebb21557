package dto

// CreateAssignmentRequest adds an assignment to the personal calendar, or to
// a class calendar when ClassName is set.
type CreateAssignmentRequest struct {
	ClassName string `json:"className" validate:"omitempty,max=100"`
	Summary   string `json:"summary" validate:"required,max=200"`
	Estimate  string `json:"estimate" validate:"omitempty,max=200"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ToggleAssignmentResult reports what a delete-or-check-off request did.
type ToggleAssignmentResult struct {
	EventID string `json:"eventId"`
	Deleted bool   `json:"deleted"`
	Checked bool   `json:"checked"`
}

// SyllabusImportResult acknowledges a queued syllabus import.
type SyllabusImportResult struct {
	JobID       string `json:"jobId"`
	ClassName   string `json:"className"`
	Assignments int    `json:"assignments"`
}

package dto

// CreateClassRequest creates a class owned by the calling professor.
type CreateClassRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// SetColorRequest changes the color of a calendar.
type SetColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

// ColorResponse reports the resolved color of a calendar.
type ColorResponse struct {
	ClassName string `json:"className,omitempty"`
	Color     string `json:"color"`
}

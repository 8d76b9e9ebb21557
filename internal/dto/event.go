package dto

// EventsQuery filters aggregated events by start date.
type EventsQuery struct {
	Day   *int `form:"day" validate:"omitempty,min=1,max=31"`
	Month *int `form:"month" validate:"omitempty,min=1,max=12"`
	Year  *int `form:"year" validate:"omitempty,min=1970,max=9999"`
}

// UpcomingQuery limits upcoming events to a single class.
type UpcomingQuery struct {
	Class string `form:"class"`
}

package request

import (
	"time"
)

type UpdateSettingsRequest struct {
	AppointmentDurationMin int  `json:"appointment_duration_min" binding:"required,min=5,max=480"`
	AutoConfirm            bool `json:"auto_confirm"`
}

type UpsertTemplateRequest struct {
	DayOfWeek int  `json:"day_of_week" binding:"min=0,max=6"`
	Enabled   bool `json:"enabled"`
	StartMin  int  `json:"start_min" binding:"min=0,max=1440"`
	EndMin    int  `json:"end_min" binding:"min=0,max=1440"`
}

type MaterializeRequest struct {
	From string `json:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to" binding:"required,datetime=2006-01-02"`
}

// Range parses the validated date bounds. Dates are interpreted as UTC
// calendar days, inclusive on both ends.
func (r MaterializeRequest) Range() (time.Time, time.Time) {
	from, _ := time.ParseInLocation(time.DateOnly, r.From, time.UTC)
	to, _ := time.ParseInLocation(time.DateOnly, r.To, time.UTC)
	return from, to
}

package domain

import "time"

type Shift struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	RequiredStaff int32     `json:"required_staff"`
}

// CoverageHours 班次覆盖的小时数，允许小数
func (s *Shift) CoverageHours() float64 {
	return s.EndsAt.Sub(s.StartsAt).Hours()
}

type ShiftPayload struct {
	Name          string    `json:"name" validate:"required"`
	Location      string    `json:"location" validate:"required"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	EndsAt        time.Time `json:"ends_at" validate:"required"`
	RequiredStaff int32     `json:"required_staff" validate:"required,min=1"`
}

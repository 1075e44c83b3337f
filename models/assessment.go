package models

import "github.com/uptrace/bun"

// Assessment is an assessment-mode reference row.
type Assessment struct {
	bun.BaseModel `bun:"table:assessment,alias:a"`

	AssessmentMode     string `bun:"assessmentMode,pk" json:"assessmentMode"`
	AssessmentModeI18n string `bun:"assessmentModeI18n" json:"assessmentModeI18n"`
	CalendarID         int    `bun:"calendarId" json:"calendarId"`
}

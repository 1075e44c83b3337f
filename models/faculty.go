package models

import "github.com/uptrace/bun"

// Faculty is a faculty reference row.
type Faculty struct {
	bun.BaseModel `bun:"table:faculty,alias:f"`

	Faculty     string `bun:"faculty,pk" json:"facultyId"`
	FacultyI18n string `bun:"facultyI18n" json:"facultyName"`
	CalendarID  int    `bun:"calendarId" json:"-"`
}

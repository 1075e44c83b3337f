package models

import "github.com/uptrace/bun"

// Campus is a campus reference row.
type Campus struct {
	bun.BaseModel `bun:"table:campus,alias:ca"`

	Campus     string `bun:"campus,pk" json:"campusId"`
	CampusI18n string `bun:"campusI18n" json:"campusName"`
	CalendarID int    `bun:"calendarId" json:"-"`
}

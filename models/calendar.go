package models

import "github.com/uptrace/bun"

// Calendar is one academic calendar period.
type Calendar struct {
	bun.BaseModel `bun:"table:calendar,alias:cal"`

	CalendarID     int    `bun:"calendarId,pk" json:"calendarId"`
	CalendarIDI18n string `bun:"calendarIdI18n" json:"calendarName"`
}

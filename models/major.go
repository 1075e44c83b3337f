package models

import "github.com/uptrace/bun"

// Major is one admission-cohort major. Name is the raw portal string and
// the dedup key; grade and code are extracted from it on import.
type Major struct {
	bun.BaseModel `bun:"table:major,alias:m"`

	ID         int     `bun:"id,pk,autoincrement" json:"id"`
	Code       *string `bun:"code" json:"code"`
	Grade      *int    `bun:"grade" json:"grade"`
	Name       string  `bun:"name,notnull,unique" json:"name"`
	CalendarID int     `bun:"calendarId" json:"-"`
}

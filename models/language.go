package models

import "github.com/uptrace/bun"

// Language is a teaching-language reference row. calendarId records the
// period that last touched it.
type Language struct {
	bun.BaseModel `bun:"table:language,alias:l"`

	TeachingLanguage     string `bun:"teachingLanguage,pk" json:"teachingLanguage"`
	TeachingLanguageI18n string `bun:"teachingLanguageI18n" json:"teachingLanguageI18n"`
	CalendarID           int    `bun:"calendarId" json:"calendarId"`
}

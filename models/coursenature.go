package models

import "github.com/uptrace/bun"

// CourseNature is a course-label row scoped to one calendar period, so
// the same label id can carry different names across periods.
type CourseNature struct {
	bun.BaseModel `bun:"table:coursenature_by_calendar,alias:n"`

	CalendarID      int    `bun:"calendarId,pk" json:"calendarId"`
	CourseLabelID   int64  `bun:"courseLabelId,pk" json:"courseLabelId"`
	CourseLabelName string `bun:"courseLabelName" json:"courseLabelName"`
}

package models

import "github.com/uptrace/bun"

// CourseDetail is one teaching class of a course in one calendar period.
// The portal's class id is the primary key.
type CourseDetail struct {
	bun.BaseModel `bun:"table:coursedetail,alias:cd"`

	ID               int64    `bun:"id,pk" json:"id"`
	Code             *string  `bun:"code" json:"code"`
	Name             *string  `bun:"name" json:"name"`
	CourseLabelID    *int64   `bun:"courseLabelId" json:"courseLabelId"`
	AssessmentMode   *string  `bun:"assessmentMode" json:"assessmentMode"`
	Period           *float64 `bun:"period" json:"period"`
	WeekHour         *float64 `bun:"weekHour" json:"weekHour"`
	Campus           *string  `bun:"campus" json:"campus"`
	Number           *int     `bun:"number" json:"number"`
	ElcNumber        *int     `bun:"elcNumber" json:"elcNumber"`
	StartWeek        *int     `bun:"startWeek" json:"startWeek"`
	EndWeek          *int     `bun:"endWeek" json:"endWeek"`
	CourseCode       *string  `bun:"courseCode" json:"courseCode"`
	CourseName       *string  `bun:"courseName" json:"courseName"`
	Credit           *float64 `bun:"credit" json:"credit"`
	TeachingLanguage *string  `bun:"teachingLanguage" json:"teachingLanguage"`
	Faculty          *string  `bun:"faculty" json:"faculty"`
	CalendarID       int      `bun:"calendarId" json:"calendarId"`
	NewCourseCode    *string  `bun:"newCourseCode" json:"newCourseCode"`
	NewCode          *string  `bun:"newCode" json:"newCode"`
}

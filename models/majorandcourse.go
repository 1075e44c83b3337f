package models

import "github.com/uptrace/bun"

// MajorAndCourse links a major to a teaching class.
type MajorAndCourse struct {
	bun.BaseModel `bun:"table:majorandcourse,alias:mac"`

	MajorID  int   `bun:"majorId,pk" json:"majorId"`
	CourseID int64 `bun:"courseId,pk" json:"courseId"`
}

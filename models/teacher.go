package models

import "github.com/uptrace/bun"

// Teacher is one teacher assignment on a teaching class. ArrangeInfoText is
// the raw multi-line arrangement text shared by the class.
type Teacher struct {
	bun.BaseModel `bun:"table:teacher,alias:t"`

	ID              int64   `bun:"id,pk" json:"-"`
	TeachingClassID int64   `bun:"teachingClassId" json:"-"`
	TeacherCode     *string `bun:"teacherCode" json:"teacherCode"`
	TeacherName     *string `bun:"teacherName" json:"teacherName"`
	ArrangeInfoText *string `bun:"arrangeInfoText" json:"-"`
}

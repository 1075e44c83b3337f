package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liuzy0419/pksync/models"
)

type gradeRequest struct {
	CalendarID int `json:"calendarId"`
}

// GradesByCalendar returns the distinct admission grades that have courses
// in the given calendar period, newest first.
func (h *Handler) GradesByCalendar(c echo.Context) error {
	var req gradeRequest
	if err := c.Bind(&req); err != nil || req.CalendarID <= 0 {
		return jsonErr(c, http.StatusBadRequest, "参数错误: 缺少 calendarId")
	}

	var grades []int
	err := h.db.NewSelect().
		Model((*models.Major)(nil)).
		ColumnExpr("DISTINCT m.grade").
		Join("JOIN majorandcourse AS mac ON mac.majorId = m.id").
		Join("JOIN coursedetail AS cd ON cd.id = mac.courseId").
		Where("cd.calendarId = ?", req.CalendarID).
		Where("m.grade IS NOT NULL").
		OrderExpr("m.grade DESC").
		Scan(c.Request().Context(), &grades)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}
	return jsonOk(c, map[string]any{"gradeList": grades})
}

type majorRequest struct {
	Grade int `json:"grade"`
}

type majorData struct {
	Code *string `json:"code"`
	Name string  `json:"name"`
}

// MajorsByGrade returns the majors of one admission grade.
func (h *Handler) MajorsByGrade(c echo.Context) error {
	var req majorRequest
	if err := c.Bind(&req); err != nil || req.Grade <= 0 {
		return jsonErr(c, http.StatusBadRequest, "参数错误: 缺少 grade")
	}

	var majors []models.Major
	err := h.db.NewSelect().
		Model(&majors).
		Column("m.code", "m.name").
		Where("m.grade = ?", req.Grade).
		OrderExpr("m.code ASC").
		Scan(c.Request().Context())
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}

	result := make([]majorData, len(majors))
	for i, m := range majors {
		result[i] = majorData{Code: m.Code, Name: m.Name}
	}
	return jsonOk(c, result)
}

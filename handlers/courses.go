package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/liuzy0419/pksync/arrange"
	"github.com/liuzy0419/pksync/models"
)

const searchSizeLimit = 100

type searchRequest struct {
	CalendarID  int    `json:"calendarId"`
	CourseName  string `json:"courseName"`
	CourseCode  string `json:"courseCode"`
	TeacherCode string `json:"teacherCode"`
	TeacherName string `json:"teacherName"`
	Campus      string `json:"campus"`
	Faculty     string `json:"faculty"`
}

type searchRow struct {
	CourseCode   string  `bun:"courseCode"`
	CourseName   string  `bun:"courseName"`
	FacultyI18n  string  `bun:"facultyI18n"`
	CourseNature string  `bun:"courseNature"`
	CampusList   string  `bun:"campus_list"`
	Credit       float64 `bun:"credit"`
}

type searchData struct {
	CourseCode   string   `json:"courseCode"`
	CourseName   string   `json:"courseName"`
	FacultyI18n  string   `json:"facultyI18n"`
	CourseNature []string `json:"courseNature"`
	CampusList   []string `json:"campus_list"`
	Credit       float64  `json:"credit"`
}

// SearchCourses finds courses by any combination of name, code, teacher,
// campus and faculty filters, grouped per course code.
func (h *Handler) SearchCourses(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil || req.CalendarID <= 0 {
		return jsonErr(c, http.StatusBadRequest, "参数错误: 缺少 calendarId")
	}

	q := h.db.NewSelect().
		Model((*models.CourseDetail)(nil)).
		ColumnExpr("cd.courseCode AS courseCode").
		ColumnExpr("cd.courseName AS courseName").
		ColumnExpr("f.facultyI18n AS facultyI18n").
		ColumnExpr("GROUP_CONCAT(DISTINCT n.courseLabelName) AS courseNature").
		ColumnExpr("GROUP_CONCAT(DISTINCT ca.campusI18n) AS campus_list").
		ColumnExpr("MAX(cd.credit) AS credit").
		Join("LEFT JOIN faculty AS f ON f.faculty = cd.faculty").
		Join("LEFT JOIN campus AS ca ON ca.campus = cd.campus").
		Join("LEFT JOIN coursenature_by_calendar AS n ON n.courseLabelId = cd.courseLabelId AND n.calendarId = cd.calendarId").
		Join("LEFT JOIN teacher AS t ON t.teachingClassId = cd.id").
		Where("cd.calendarId = ?", req.CalendarID).
		GroupExpr("cd.courseCode, cd.courseName, f.facultyI18n").
		OrderExpr("cd.courseCode ASC").
		Limit(searchSizeLimit)

	if s := strings.TrimSpace(req.CourseName); s != "" {
		q = q.Where("cd.courseName LIKE ?", "%"+s+"%")
	}
	if s := strings.TrimSpace(req.CourseCode); s != "" {
		q = q.Where("cd.courseCode LIKE ?", "%"+s+"%")
	}
	if s := strings.TrimSpace(req.Campus); s != "" {
		q = q.Where("cd.campus = ?", s)
	}
	if s := strings.TrimSpace(req.Faculty); s != "" {
		q = q.Where("cd.faculty = ?", s)
	}
	if s := strings.TrimSpace(req.TeacherCode); s != "" {
		q = q.Where("t.teacherCode LIKE ?", "%"+s+"%")
	}
	if s := strings.TrimSpace(req.TeacherName); s != "" {
		q = q.Where("t.teacherName LIKE ?", "%"+s+"%")
	}

	var rows []searchRow
	if err := q.Scan(c.Request().Context(), &rows); err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}

	courses := make([]searchData, len(rows))
	for i, r := range rows {
		courses[i] = searchData{
			CourseCode:   r.CourseCode,
			CourseName:   r.CourseName,
			FacultyI18n:  r.FacultyI18n,
			CourseNature: splitConcat(r.CourseNature),
			CampusList:   splitConcat(r.CampusList),
			Credit:       r.Credit,
		}
	}
	return jsonOk(c, map[string]any{"courses": courses, "sizeLimit": searchSizeLimit})
}

type detailRequest struct {
	CalendarID  int      `json:"calendarId"`
	CourseCode  string   `json:"courseCode"`
	CourseCodes []string `json:"courseCodes"`
}

type detailRow struct {
	ID                   int64  `bun:"id"`
	Code                 string `bun:"code"`
	CourseCode           string `bun:"courseCode"`
	CampusI18n           string `bun:"campusI18n"`
	TeachingLanguageI18n string `bun:"teachingLanguageI18n"`
}

type teacherData struct {
	TeacherCode string `json:"teacherCode"`
	TeacherName string `json:"teacherName"`
}

type classData struct {
	Code             string         `json:"code"`
	Teachers         []teacherData  `json:"teachers"`
	Campus           string         `json:"campus"`
	TeachingLanguage string         `json:"teachingLanguage"`
	ArrangementInfo  []arrange.Info `json:"arrangementInfo"`
}

// CourseDetail returns the teaching classes of one or more course codes with
// teachers and parsed arrangement slots. A single courseCode yields a list,
// courseCodes a map keyed by code.
func (h *Handler) CourseDetail(c echo.Context) error {
	var req detailRequest
	if err := c.Bind(&req); err != nil || req.CalendarID <= 0 {
		return jsonErr(c, http.StatusBadRequest, "参数错误: 缺少 calendarId")
	}

	single := strings.TrimSpace(req.CourseCode)
	codes := []string{single}
	if single == "" {
		codes = codes[:0]
		for _, cc := range req.CourseCodes {
			if cc = strings.TrimSpace(cc); cc != "" {
				codes = append(codes, cc)
			}
		}
	}
	if len(codes) == 0 {
		return jsonErr(c, http.StatusBadRequest, "参数错误: 缺少 courseCode(s)")
	}

	ctx := c.Request().Context()
	var rows []detailRow
	err := h.db.NewSelect().
		Model((*models.CourseDetail)(nil)).
		ColumnExpr("cd.id AS id").
		ColumnExpr("cd.code AS code").
		ColumnExpr("cd.courseCode AS courseCode").
		ColumnExpr("ca.campusI18n AS campusI18n").
		ColumnExpr("l.teachingLanguageI18n AS teachingLanguageI18n").
		Join("LEFT JOIN campus AS ca ON ca.campus = cd.campus").
		Join("LEFT JOIN language AS l ON l.teachingLanguage = cd.teachingLanguage").
		Where("cd.calendarId = ?", req.CalendarID).
		Where("cd.courseCode IN (?)", bun.In(codes)).
		OrderExpr("cd.courseCode ASC, cd.code ASC").
		Scan(ctx, &rows)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}

	classIDs := make([]int64, len(rows))
	for i, r := range rows {
		classIDs[i] = r.ID
	}
	teachersByClass, err := h.teachersByClass(ctx, classIDs)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}

	byCode := map[string][]classData{}
	for _, row := range rows {
		if row.CourseCode == "" {
			continue
		}
		teachers := teachersByClass[row.ID]

		cls := classData{
			Code:             row.Code,
			Teachers:         make([]teacherData, 0, len(teachers)),
			Campus:           row.CampusI18n,
			TeachingLanguage: row.TeachingLanguageI18n,
		}
		var texts []string
		for _, t := range teachers {
			cls.Teachers = append(cls.Teachers, teacherData{
				TeacherCode: strDeref(t.TeacherCode),
				TeacherName: strDeref(t.TeacherName),
			})
			texts = append(texts, strDeref(t.ArrangeInfoText))
		}
		cls.ArrangementInfo = arrange.Merge(texts)

		byCode[row.CourseCode] = append(byCode[row.CourseCode], cls)
	}

	if single != "" {
		list := byCode[single]
		if list == nil {
			list = []classData{}
		}
		return jsonOk(c, list)
	}
	return jsonOk(c, byCode)
}

type timeRequest struct {
	CalendarID int `json:"calendarId"`
	Day        int `json:"day"`
	Section    int `json:"section"`
}

type timeRow struct {
	CourseCode   string  `bun:"courseCode"`
	CourseName   string  `bun:"courseName"`
	Faculty      string  `bun:"faculty"`
	Credit       float64 `bun:"credit"`
	CourseNature string  `bun:"courseNature"`
	Campus       string  `bun:"campus"`
}

type timeData struct {
	CourseCode   string   `json:"courseCode"`
	CourseName   string   `json:"courseName"`
	FacultyI18n  string   `json:"facultyI18n"`
	Credit       float64  `json:"credit"`
	CourseNature []string `json:"courseNature"`
	Campus       []string `json:"campus"`
}

// CoursesByTime finds courses whose arrangement text occupies the given
// timetable slot.
func (h *Handler) CoursesByTime(c echo.Context) error {
	var req timeRequest
	if err := c.Bind(&req); err != nil || req.CalendarID <= 0 {
		return jsonErr(c, http.StatusBadRequest, "输入参数有误")
	}

	patterns := arrange.SlotPatterns(req.Day, req.Section)
	if patterns == nil {
		return jsonErr(c, http.StatusBadRequest, "输入参数有误")
	}

	likes := make([]string, len(patterns))
	args := make([]any, len(patterns))
	for i, p := range patterns {
		likes[i] = "t.arrangeInfoText LIKE ?"
		args[i] = p
	}

	var rows []timeRow
	err := h.db.NewSelect().
		Model((*models.CourseDetail)(nil)).
		ColumnExpr("cd.courseCode AS courseCode").
		ColumnExpr("cd.courseName AS courseName").
		ColumnExpr("f.facultyI18n AS faculty").
		ColumnExpr("MAX(cd.credit) AS credit").
		ColumnExpr("GROUP_CONCAT(DISTINCT n.courseLabelName) AS courseNature").
		ColumnExpr("GROUP_CONCAT(DISTINCT ca.campusI18n) AS campus").
		Join("JOIN teacher AS t ON t.teachingClassId = cd.id").
		Join("LEFT JOIN faculty AS f ON f.faculty = cd.faculty").
		Join("LEFT JOIN campus AS ca ON ca.campus = cd.campus").
		Join("LEFT JOIN coursenature_by_calendar AS n ON n.courseLabelId = cd.courseLabelId AND n.calendarId = cd.calendarId").
		Where("cd.calendarId = ?", req.CalendarID).
		Where("("+strings.Join(likes, " OR ")+")", args...).
		GroupExpr("cd.courseCode, cd.courseName, f.facultyI18n").
		OrderExpr("cd.courseCode ASC").
		Scan(c.Request().Context(), &rows)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}

	data := make([]timeData, len(rows))
	for i, r := range rows {
		data[i] = timeData{
			CourseCode:   r.CourseCode,
			CourseName:   r.CourseName,
			FacultyI18n:  r.Faculty,
			Credit:       r.Credit,
			CourseNature: splitConcat(r.CourseNature),
			Campus:       splitConcat(r.Campus),
		}
	}
	return jsonOk(c, data)
}

// teachersByClass loads all teacher rows for the given teaching classes in
// one query.
func (h *Handler) teachersByClass(ctx context.Context, classIDs []int64) (map[int64][]models.Teacher, error) {
	out := map[int64][]models.Teacher{}
	if len(classIDs) == 0 {
		return out, nil
	}

	var teachers []models.Teacher
	err := h.db.NewSelect().
		Model(&teachers).
		Where("t.teachingClassId IN (?)", bun.In(classIDs)).
		OrderExpr("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teachers {
		out[t.TeachingClassID] = append(out[t.TeachingClassID], t)
	}
	return out, nil
}

// splitConcat splits a GROUP_CONCAT value into trimmed non-empty parts.
func splitConcat(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package sync

import (
	"strings"
	"testing"
	"time"

	"github.com/liuzy0419/pksync/onesystem"
)

func course(id any, overrides onesystem.Record) onesystem.Record {
	r := onesystem.Record{
		"id":               id,
		"code":             "1234001001AB",
		"name":             "土木工程概论AB班",
		"courseCode":       "1234001001",
		"courseName":       "土木工程概论",
		"courseLabelId":    float64(7),
		"courseLabelName":  "专业必修",
		"assessmentMode":   "1",
		"assessmentModeI18n": "考试",
		"campus":           "1",
		"campusI18n":       "四平路校区",
		"faculty":          "03",
		"facultyI18n":      "土木工程学院",
		"teachingLanguage": "zh",
		"teachingLanguageI18n": "中文",
		"calendarIdI18n":   "2025-2026学年第1学期",
		"credits":          float64(2),
		"period":           float64(34),
		"weekHour":         float64(2),
		"number":           float64(120),
		"elcNumber":        float64(0),
		"startWeek":        float64(1),
		"endWeek":          float64(17),
		"arrangeInfo":      "张三 星期一 1-2节 [1-16] 北楼101",
		"teacherList": []any{
			map[string]any{"id": float64(9001), "teacherCode": "T001", "teacherName": "张三"},
		},
		"majorList": []any{"2025(03074 土木工程)"},
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

func emit(t *testing.T, calendarID int, courses []onesystem.Record) (string, int) {
	t.Helper()
	var sb strings.Builder
	n, err := EmitScript(&sb, calendarID, courses)
	if err != nil {
		t.Fatalf("EmitScript: %v", err)
	}
	return sb.String(), n
}

func TestEmitScriptStatementOrder(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Unix(1756200000, 0) }
	defer func() { now = restore }()

	script, n := emit(t, 119, []onesystem.Record{course(float64(42), nil)})
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}

	wantInOrder := []string{
		"DELETE FROM teacher WHERE teachingClassId IN (SELECT id FROM coursedetail WHERE calendarId = 119);",
		"DELETE FROM majorandcourse WHERE courseId IN (SELECT id FROM coursedetail WHERE calendarId = 119);",
		"DELETE FROM coursedetail WHERE calendarId = 119;",
		"DELETE FROM calendar WHERE calendarId = 119;",
		"DELETE FROM coursenature_by_calendar WHERE calendarId = 119;",
		"INSERT OR REPLACE INTO calendar (calendarId, calendarIdI18n) VALUES (119, '2025-2026学年第1学期');",
		"INSERT INTO language (teachingLanguage",
		"INSERT INTO coursenature_by_calendar (calendarId, courseLabelId, courseLabelName) VALUES (119, 7, '专业必修')",
		"INSERT INTO assessment (assessmentMode",
		"INSERT INTO campus (campus",
		"INSERT INTO faculty (faculty",
		"INSERT INTO major (code, grade, name, calendarId) VALUES ('03074', 2025, '2025(03074 土木工程)', 119)",
		"INSERT OR REPLACE INTO coursedetail",
		"INSERT OR REPLACE INTO teacher (id, teachingClassId, teacherCode, teacherName, arrangeInfoText) VALUES (9001, 42, 'T001', '张三', '张三 星期一 1-2节 [1-16] 北楼101');",
		"INSERT OR IGNORE INTO majorandcourse (majorId, courseId) VALUES ((SELECT id FROM major WHERE name = '2025(03074 土木工程)'), 42);",
		"INSERT INTO fetchlog (fetchTime, msg) VALUES (1756200000, 'sync calendarId=119 via pksync');",
	}

	pos := 0
	for _, want := range wantInOrder {
		idx := strings.Index(script[pos:], want)
		if idx < 0 {
			t.Fatalf("statement missing or out of order:\n%s\n\nscript:\n%s", want, script)
		}
		pos += idx + len(want)
	}
}

func TestEmitScriptDedupesReferences(t *testing.T) {
	script, n := emit(t, 119, []onesystem.Record{
		course(float64(1), nil),
		course(float64(2), onesystem.Record{"code": "1234001001CD"}),
	})
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}

	for _, stmt := range []string{
		"INSERT INTO language",
		"INSERT INTO coursenature_by_calendar",
		"INSERT INTO assessment",
		"INSERT INTO campus",
		"INSERT INTO faculty",
		"INSERT INTO major ",
	} {
		if got := strings.Count(script, stmt); got != 1 {
			t.Errorf("%q emitted %d times, want 1", stmt, got)
		}
	}
	if got := strings.Count(script, "INSERT OR REPLACE INTO coursedetail"); got != 2 {
		t.Errorf("coursedetail emitted %d times, want 2", got)
	}
	// The major association repeats per class even though the major row is
	// deduped.
	if got := strings.Count(script, "INSERT OR IGNORE INTO majorandcourse"); got != 2 {
		t.Errorf("majorandcourse emitted %d times, want 2", got)
	}
}

func TestEmitScriptSkipsCourseWithoutID(t *testing.T) {
	script, n := emit(t, 119, []onesystem.Record{course(nil, nil)})
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}
	if strings.Contains(script, "INSERT OR REPLACE INTO coursedetail") {
		t.Error("coursedetail emitted for a course without id")
	}
	// Reference rows still land.
	if !strings.Contains(script, "INSERT INTO faculty") {
		t.Error("faculty reference dropped for a course without id")
	}
}

func TestEmitScriptEscapesValues(t *testing.T) {
	script, _ := emit(t, 119, []onesystem.Record{
		course(float64(1), onesystem.Record{"courseName": "it's'; DROP TABLE x; --"}),
	})
	if !strings.Contains(script, "'it''s''; DROP TABLE x; --'") {
		t.Errorf("course name not escaped:\n%s", script)
	}
}

func TestEmitScriptStringifiesNonStringMajors(t *testing.T) {
	script, _ := emit(t, 119, []onesystem.Record{
		course(float64(1), onesystem.Record{
			"majorList": []any{"2025(03074 土木工程)", float64(42), nil},
		}),
	})
	if !strings.Contains(script, "INSERT INTO major (code, grade, name, calendarId) VALUES (NULL, NULL, '42', 119)") {
		t.Errorf("numeric major entry not stringified:\n%s", script)
	}
	if got := strings.Count(script, "INSERT INTO major "); got != 2 {
		t.Errorf("major inserts = %d, want 2 (nil entry dropped)", got)
	}
}

func TestEmitScriptEmptyPeriod(t *testing.T) {
	script, n := emit(t, 120, nil)
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}
	// The refresh still clears the period and records the run.
	if !strings.Contains(script, "DELETE FROM coursedetail WHERE calendarId = 120;") {
		t.Error("missing period DELETE for empty fetch")
	}
	if !strings.Contains(script, "INSERT INTO fetchlog") {
		t.Error("missing fetchlog trailer for empty fetch")
	}
}

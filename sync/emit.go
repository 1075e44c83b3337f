package sync

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/liuzy0419/pksync/onesystem"
)

// now is replaceable in tests so the fetchlog trailer is deterministic.
var now = time.Now

// opt maps an empty string to SQL NULL.
func opt(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// intOrNil maps an absent coerced integer to SQL NULL.
func intOrNil(v int64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// EmitScript writes the full refresh script for one calendar period and
// returns the number of teaching classes it inserts.
//
// The statement order is significant: period-scoped DELETEs run first in
// child-to-parent order so a rerun never duplicates or orphans rows, then per
// course the calendar row, any first-seen reference upserts, the coursedetail
// row, teacher rows and major associations, and finally one fetchlog line.
// The downstream executor forbids explicit transactions, so the script is a
// flat statement sequence and recovery relies on rerunning it.
func EmitScript(w io.Writer, calendarID int, courses []onesystem.Record) (int, error) {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "-- generated by pksync\n")

	fmt.Fprintf(bw, "DELETE FROM teacher WHERE teachingClassId IN (SELECT id FROM coursedetail WHERE calendarId = %d);\n", calendarID)
	fmt.Fprintf(bw, "DELETE FROM majorandcourse WHERE courseId IN (SELECT id FROM coursedetail WHERE calendarId = %d);\n", calendarID)
	fmt.Fprintf(bw, "DELETE FROM coursedetail WHERE calendarId = %d;\n", calendarID)
	fmt.Fprintf(bw, "DELETE FROM calendar WHERE calendarId = %d;\n", calendarID)
	fmt.Fprintf(bw, "DELETE FROM coursenature_by_calendar WHERE calendarId = %d;\n", calendarID)

	seenLanguage := map[string]bool{}
	seenNature := map[int64]bool{}
	seenAssessment := map[string]bool{}
	seenCampus := map[string]bool{}
	seenFaculty := map[string]bool{}
	seenMajor := map[string]bool{}

	inserted := 0
	for _, course := range courses {
		fmt.Fprintf(bw, "INSERT OR REPLACE INTO calendar (calendarId, calendarIdI18n) VALUES (%d, %s);\n",
			calendarID, Quote(opt(course.Str("calendarIdI18n"))))

		language := course.Str("teachingLanguage")
		if language != "" && !seenLanguage[language] {
			seenLanguage[language] = true
			fmt.Fprintf(bw, "INSERT INTO language (teachingLanguage, teachingLanguageI18n, calendarId) "+
				"VALUES (%s, %s, %d) "+
				"ON CONFLICT(teachingLanguage) DO UPDATE SET "+
				"teachingLanguageI18n=excluded.teachingLanguageI18n, calendarId=excluded.calendarId;\n",
				Quote(language), Quote(opt(course.Str("teachingLanguageI18n"))), calendarID)
		}

		// A malformed label id drops the label from dedup but the course row
		// below still reports NULL for it.
		labelID, labelOK := course.Int("courseLabelId")
		if labelOK && !seenNature[labelID] {
			seenNature[labelID] = true
			fmt.Fprintf(bw, "INSERT INTO coursenature_by_calendar (calendarId, courseLabelId, courseLabelName) "+
				"VALUES (%d, %d, %s) "+
				"ON CONFLICT(calendarId, courseLabelId) DO UPDATE SET "+
				"courseLabelName=excluded.courseLabelName;\n",
				calendarID, labelID, Quote(opt(course.Str("courseLabelName"))))
		}

		assessment := course.Str("assessmentMode")
		if assessment != "" && !seenAssessment[assessment] {
			seenAssessment[assessment] = true
			fmt.Fprintf(bw, "INSERT INTO assessment (assessmentMode, assessmentModeI18n, calendarId) "+
				"VALUES (%s, %s, %d) "+
				"ON CONFLICT(assessmentMode) DO UPDATE SET "+
				"assessmentModeI18n=excluded.assessmentModeI18n, calendarId=excluded.calendarId;\n",
				Quote(assessment), Quote(opt(course.Str("assessmentModeI18n"))), calendarID)
		}

		campus := course.Str("campus")
		if campus != "" && !seenCampus[campus] {
			seenCampus[campus] = true
			fmt.Fprintf(bw, "INSERT INTO campus (campus, campusI18n, calendarId) "+
				"VALUES (%s, %s, %d) "+
				"ON CONFLICT(campus) DO UPDATE SET "+
				"campusI18n=excluded.campusI18n, calendarId=excluded.calendarId;\n",
				Quote(campus), Quote(opt(course.Str("campusI18n"))), calendarID)
		}

		faculty := course.Str("faculty")
		if faculty != "" && !seenFaculty[faculty] {
			seenFaculty[faculty] = true
			fmt.Fprintf(bw, "INSERT INTO faculty (faculty, facultyI18n, calendarId) "+
				"VALUES (%s, %s, %d) "+
				"ON CONFLICT(faculty) DO UPDATE SET "+
				"facultyI18n=excluded.facultyI18n, calendarId=excluded.calendarId;\n",
				Quote(faculty), Quote(opt(course.Str("facultyI18n"))), calendarID)
		}

		majors := majorNames(course)
		for _, name := range majors {
			if seenMajor[name] {
				continue
			}
			seenMajor[name] = true
			parsed := ParseMajor(name)
			var grade any
			if parsed.Grade != nil {
				grade = *parsed.Grade
			}
			fmt.Fprintf(bw, "INSERT INTO major (code, grade, name, calendarId) "+
				"VALUES (%s, %s, %s, %d) "+
				"ON CONFLICT(name) DO UPDATE SET "+
				"code=excluded.code, grade=excluded.grade, calendarId=excluded.calendarId;\n",
				Quote(opt(parsed.Code)), Quote(grade), Quote(parsed.Name), calendarID)
		}

		classID, ok := course.Int("id")
		if !ok {
			// Reference rows above still count; only the class itself is
			// unidentifiable.
			continue
		}

		newCourseCode, newCode := ComputeNewCode(
			course.Str("code"), course.Str("courseCode"), course.Str("newCourseCode"))

		fmt.Fprintf(bw, "INSERT OR REPLACE INTO coursedetail "+
			"(id, code, name, courseLabelId, assessmentMode, period, weekHour, campus, number, elcNumber, startWeek, endWeek, "+
			"courseCode, courseName, credit, teachingLanguage, faculty, calendarId, newCourseCode, newCode) VALUES ("+
			"%d, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %d, %s, %s);\n",
			classID,
			Quote(opt(course.Str("code"))),
			Quote(opt(course.Str("name"))),
			Quote(intOrNil(labelID, labelOK)),
			Quote(opt(assessment)),
			Quote(course.Raw("period")),
			Quote(course.Raw("weekHour")),
			Quote(opt(campus)),
			Quote(course.Raw("number")),
			Quote(course.Raw("elcNumber")),
			Quote(course.Raw("startWeek")),
			Quote(course.Raw("endWeek")),
			Quote(opt(course.Str("courseCode"))),
			Quote(opt(course.Str("courseName"))),
			Quote(course.Raw("credits")),
			Quote(opt(language)),
			Quote(opt(faculty)),
			calendarID,
			Quote(opt(newCourseCode)),
			Quote(opt(newCode)))

		arrangeInfo := opt(course.Str("arrangeInfo"))
		for _, t := range course.Children("teacherList") {
			teacherID, ok := t.Int("id")
			if !ok {
				continue
			}
			fmt.Fprintf(bw, "INSERT OR REPLACE INTO teacher (id, teachingClassId, teacherCode, teacherName, arrangeInfoText) VALUES ("+
				"%d, %d, %s, %s, %s);\n",
				teacherID, classID,
				Quote(opt(t.Str("teacherCode"))),
				Quote(opt(t.Str("teacherName"))),
				Quote(arrangeInfo))
		}

		for _, name := range majors {
			fmt.Fprintf(bw, "INSERT OR IGNORE INTO majorandcourse (majorId, courseId) VALUES ("+
				"(SELECT id FROM major WHERE name = %s), %d);\n",
				Quote(name), classID)
		}

		inserted++
	}

	fmt.Fprintf(bw, "INSERT INTO fetchlog (fetchTime, msg) VALUES (%d, %s);\n",
		now().Unix(), Quote(fmt.Sprintf("sync calendarId=%d via pksync", calendarID)))

	return inserted, bw.Flush()
}

// majorNames collects the non-empty major entries of a record, in order.
// Non-string entries are stringified rather than dropped.
func majorNames(course onesystem.Record) []string {
	items := course.List("majorList")
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		switch v := item.(type) {
		case nil:
		case string:
			s = v
		default:
			s = fmt.Sprint(v)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

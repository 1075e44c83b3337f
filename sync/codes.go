package sync

import (
	"regexp"
	"strconv"
	"strings"
)

// ComputeNewCode derives the renumbered course codes for a teaching class.
// The portal issues newCourseCode when a course is renumbered; the derived
// second code keeps the two-character section suffix from the tail of the
// legacy class code. Empty strings mean absent.
func ComputeNewCode(code, courseCode, newCourseCode string) (string, string) {
	ncc := strings.TrimSpace(newCourseCode)
	if ncc == "" {
		return "", ""
	}

	code = strings.TrimSpace(code)
	courseCode = strings.TrimSpace(courseCode)
	if code == "" || courseCode == "" || !strings.HasPrefix(code, courseCode) {
		return ncc, ""
	}
	runes := []rune(code)
	if len(runes) < 2 {
		return ncc, ""
	}
	return ncc, ncc + string(runes[len(runes)-2:])
}

// Major is a parsed major string. The raw string stays the canonical name and
// dedup key; grade and code are best-effort extractions.
type Major struct {
	Grade *int
	Code  string
	Name  string
}

var (
	majorGradeRe = regexp.MustCompile(`^[0-9]{4}`)
	majorCodeRe  = regexp.MustCompile(`\(([0-9]{3,6})\s`)
)

// ParseMajor parses strings of the shape "<grade>(<code> <name…>)", e.g.
// "2025(03074 土木工程(国际班))". Grade is the leading four digits, code the
// first 3–6 digit run opening the first parenthetical group.
func ParseMajor(s string) Major {
	name := strings.TrimSpace(s)
	out := Major{Name: name}

	if g := majorGradeRe.FindString(name); g != "" {
		n, err := strconv.Atoi(g)
		if err == nil {
			out.Grade = &n
		}
	}
	if m := majorCodeRe.FindStringSubmatch(name); m != nil {
		out.Code = m[1]
	}
	return out
}

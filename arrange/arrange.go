// Package arrange parses the portal's free-form arrangement text, lines of
// the shape "<teacher> 星期X a-b节 [weeks] room", into structured slots.
package arrange

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Info is one parsed arrangement line. Slice fields are nil when the line
// carries no parseable value for them.
type Info struct {
	Text           string `json:"arrangementText"`
	Day            *int   `json:"occupyDay"`
	Sections       []int  `json:"occupyTime"`
	Weeks          []int  `json:"occupyWeek"`
	Room           string `json:"occupyRoom,omitempty"`
	TeacherAndCode string `json:"teacherAndCode,omitempty"`
}

var dayMap = map[string]int{
	"星期一": 1,
	"星期二": 2,
	"星期三": 3,
	"星期四": 4,
	"星期五": 5,
	"星期六": 6,
	"星期日": 7,
}

var (
	dayRe      = regexp.MustCompile(`^(星期[一二三四五六日])`)
	sectionRe  = regexp.MustCompile(`^星期[一二三四五六日]([0-9]{1,2}-[0-9]{1,2}节)`)
	weekSpanRe = regexp.MustCompile(`\[([^\]]+)\]`)
)

// SplitLines splits arrangement text on newlines, trimming and dropping
// blanks.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Parse parses one arrangement line. Unparseable pieces degrade to nil or
// empty fields, never an error; the raw text survives in Text.
func Parse(line string) Info {
	line = strings.TrimSpace(line)
	if line == "" {
		return Info{}
	}

	info := Info{Text: line}

	// The teacher prefix ends where the weekday token begins.
	if idx := strings.Index(line, " 星期"); idx >= 0 {
		info.TeacherAndCode = strings.TrimSpace(line[:idx])
		info.Text = strings.TrimSpace(line[idx+1:])
	}

	if m := dayRe.FindStringSubmatch(info.Text); m != nil {
		d := dayMap[m[1]]
		info.Day = &d
	}
	if m := sectionRe.FindStringSubmatch(info.Text); m != nil {
		info.Sections = sectionRange(m[1])
	}
	if m := weekSpanRe.FindStringSubmatch(info.Text); m != nil {
		info.Weeks = parseWeeks(m[1])
	}
	if idx := strings.Index(info.Text, "] "); idx >= 0 {
		info.Room = strings.TrimSpace(info.Text[idx+2:])
	}
	return info
}

// Merge flattens arrangement text from several teachers of one teaching
// class into a deduped slot list sorted by day then first section.
func Merge(texts []string) []Info {
	seen := map[string]bool{}
	var infos []Info
	for _, text := range texts {
		for _, line := range SplitLines(text) {
			if seen[line] {
				continue
			}
			seen[line] = true
			infos = append(infos, Parse(line))
		}
	}

	sort.SliceStable(infos, func(i, j int) bool {
		di, dj := sortDay(infos[i]), sortDay(infos[j])
		if di != dj {
			return di < dj
		}
		return sortSection(infos[i]) < sortSection(infos[j])
	})
	return infos
}

// SlotPatterns maps a (day, row-group) pair from the timetable grid onto the
// LIKE patterns matching arrangement text in that slot. Groups 1..4 are the
// two-section morning and afternoon rows, 5 the 9th-section evening row, 6
// the late rows. Unknown inputs return nil.
func SlotPatterns(day, section int) []string {
	var dayText string
	for text, d := range dayMap {
		if d == day {
			dayText = text
			break
		}
	}
	if dayText == "" {
		return nil
	}

	switch {
	case section >= 1 && section <= 4:
		return []string{"%" + dayText + strconv.Itoa(2*section-1) + "-" + strconv.Itoa(2*section) + "%"}
	case section == 5:
		return []string{"%" + dayText + "9-%"}
	case section == 6:
		return []string{"%" + dayText + "10-11%", "%" + dayText + "10-12%"}
	}
	return nil
}

// sectionRange expands "a-b节" into [a..b]; malformed ranges give nil.
func sectionRange(text string) []int {
	text = strings.TrimSuffix(text, "节")
	a, b, ok := splitRange(text)
	if !ok || a <= 0 || b < a {
		return nil
	}
	out := make([]int, 0, b-a+1)
	for i := a; i <= b; i++ {
		out = append(out, i)
	}
	return out
}

// parseWeeks expands week text like "1-16", "1-15周(单)" or
// "2-14周(双) 15-16" into a sorted, deduped week list. 单 keeps odd weeks,
// 双 even ones.
func parseWeeks(text string) []int {
	seen := map[int]bool{}
	var out []int
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, part := range strings.Fields(text) {
		part = strings.ReplaceAll(part, "周", "")
		odd := strings.Contains(part, "单")
		even := strings.Contains(part, "双")

		cleaned := strings.NewReplacer("(", "", ")", "", "（", "", "）", "", "单", "", "双", "").Replace(part)
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}

		if !strings.Contains(cleaned, "-") {
			if n, err := strconv.Atoi(cleaned); err == nil {
				add(n)
			}
			continue
		}

		a, b, ok := splitRange(cleaned)
		if !ok || a <= 0 || b < a {
			continue
		}
		step := 1
		if odd || even {
			step = 2
			if odd && a%2 == 0 {
				a++
			}
			if even && a%2 == 1 {
				a++
			}
		}
		for i := a; i <= b; i += step {
			add(i)
		}
	}

	sort.Ints(out)
	return out
}

func splitRange(s string) (int, int, bool) {
	a, bb, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(a))
	end, err2 := strconv.Atoi(strings.TrimSpace(bb))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

func sortDay(i Info) int {
	if i.Day == nil {
		return 99
	}
	return *i.Day
}

func sortSection(i Info) int {
	if len(i.Sections) == 0 {
		return 99
	}
	return i.Sections[0]
}

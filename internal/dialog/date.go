package dialog

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// dueDatePattern matches DD.MM.YYYY with one- or two-digit day and month.
var dueDatePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)

// ParseDueDate parses a DD.MM.YYYY string into midnight local time. It
// rejects both malformed strings and impossible calendar dates such as
// 31.02.2026.
func ParseDueDate(input string) (time.Time, error) {
	m := dueDatePattern.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, fmt.Errorf("due date %q does not match DD.MM.YYYY", input)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("due date %q is not a real calendar date", input)
	}
	return t, nil
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

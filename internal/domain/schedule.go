package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Wire formats for the schedule fields. These are a stored-data contract:
// existing records were written with exactly these shapes and every
// comparison in the system reuses the same strings.
const (
	DateFormat = "DD-MM-YYYY"
	TimeFormat = "HH:MM"
)

var (
	// Two-digit day, two-digit month, four-digit year. Deliberately does
	// not range-check the day against the month ("31-02-2025" passes).
	dateRe = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	// 24-hour clock with a mandatory two-digit hour.
	timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
)

// ValidDate reports whether s matches the DD-MM-YYYY wire format.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// ValidTime reports whether s is a well-formed 24-hour HH:MM time.
func ValidTime(s string) bool {
	return timeRe.MatchString(s)
}

// ParseSchedule composes a date and time string into an absolute instant.
// Calendar arithmetic is done in UTC; out-of-range days roll over the way
// the stored data expects (31-02 becomes 03-03).
func ParseSchedule(date, timeStr string) (time.Time, error) {
	day, month, year, err := splitDate(date)
	if err != nil {
		return time.Time{}, err
	}
	parts := strings.SplitN(timeStr, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed time %q", timeStr)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed time %q", timeStr)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed time %q", timeStr)
	}
	return time.Date(year, time.Month(month), day, hours, minutes, 0, 0, time.UTC), nil
}

// DateKey converts a DD-MM-YYYY string into a chronologically comparable
// integer of the form YYYYMMDD.
func DateKey(date string) (int, error) {
	day, month, year, err := splitDate(date)
	if err != nil {
		return 0, err
	}
	return year*10000 + month*100 + day, nil
}

// DateKeyOf returns the YYYYMMDD key for an instant.
func DateKeyOf(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// FormatDate encodes an instant in the DD-MM-YYYY wire format.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d-%02d-%04d", t.Day(), int(t.Month()), t.Year())
}

// FormatTime encodes an instant's wall clock as HH:MM.
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// BusinessTime converts a server instant into business-local time by the
// configured fixed offset. Every endpoint computes "now" through this one
// function; the stored wall-clock strings are interpreted against it.
func BusinessTime(serverInstant time.Time, offset time.Duration) time.Time {
	return serverInstant.UTC().Add(offset)
}

func splitDate(date string) (day, month, year int, err error) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed date %q", date)
	}
	day, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed date %q", date)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed date %q", date)
	}
	year, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed date %q", date)
	}
	return day, month, year, nil
}

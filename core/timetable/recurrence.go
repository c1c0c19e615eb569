package timetable

import (
	"sort"
	"time"
)

// DayOfWeek maps a calendar date to Monday=1 .. Sunday=7.
func DayOfWeek(date time.Time) int {
	if wd := int(date.Weekday()); wd != 0 {
		return wd
	}
	return 7 // time.Sunday
}

// ISODate formats the date part only, e.g. "2024-01-14".
func ISODate(date time.Time) string {
	return date.Format("2006-01-02")
}

// ResolveDate expands the weekly templates into the occurrences active on
// the given date: entries recurring on the date's day of week, minus those
// excluding that exact date or whose semester bounds do not bracket it.
// The result is sorted by start time; lexical comparison is sufficient for
// the fixed "HH:mm" format.
func ResolveDate(entries []TimetableEntry, date time.Time) []TimetableEntry {
	dayOfWeek := DayOfWeek(date)
	dateStr := ISODate(date)

	occurrences := make([]TimetableEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.RecursOn(dayOfWeek) {
			continue
		}
		if entry.excludes(dateStr) {
			continue
		}
		if entry.SemesterStart != nil && date.Before(*entry.SemesterStart) {
			continue
		}
		if entry.SemesterEnd != nil && date.After(*entry.SemesterEnd) {
			continue
		}
		occurrences = append(occurrences, entry)
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].StartTime < occurrences[j].StartTime
	})
	return occurrences
}

// excludes suppresses the entry for this exact date only; it still recurs
// on other qualifying dates.
func (e TimetableEntry) excludes(dateStr string) bool {
	for _, excluded := range e.ExcludedDates {
		if excluded == dateStr {
			return true
		}
	}
	return false
}

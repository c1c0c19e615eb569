package attendance

import (
	"encoding/json"
	"strconv"
)

// Percent renders as a two-decimal fixed-point string ("85.71", "0.00"),
// except when computed over an empty set, where it renders as the bare
// number 0. The asymmetry is kept for compatibility with existing clients.
type Percent struct {
	value   float64
	defined bool
}

// NewPercent returns num/total expressed as a percentage. total = 0 yields
// the undefined (bare zero) value.
func NewPercent(num, total int) Percent {
	if total == 0 {
		return Percent{}
	}
	return Percent{value: float64(num) / float64(total) * 100, defined: true}
}

func (p Percent) Float64() float64 { return p.value }

func (p Percent) String() string {
	if !p.defined {
		return "0"
	}
	return strconv.FormatFloat(p.value, 'f', 2, 64)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.defined {
		return []byte("0"), nil
	}
	return json.Marshal(p.String())
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// bare zero fallback
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*p = Percent{value: f}
		return nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*p = Percent{value: val, defined: true}
	return nil
}

// CourseStats aggregates a course's attendance records.
// CourseName is only set on the grouped (all-courses) variant;
// PresentWithLatePercentage only on the single-course one.
type CourseStats struct {
	CourseName                string   `json:"courseName,omitempty"`
	TotalClasses              int      `json:"totalClasses"`
	Present                   int      `json:"present"`
	Absent                    int      `json:"absent"`
	Late                      int      `json:"late"`
	Excused                   int      `json:"excused"`
	AttendancePercentage      Percent  `json:"attendancePercentage"`
	PresentWithLatePercentage *Percent `json:"presentWithLatePercentage,omitempty"`
}

// ComputeCourseStats is a pure function of the already-filtered slice.
func ComputeCourseStats(records []AttendanceRecord) CourseStats {
	stats := countStatuses(records)
	pwl := NewPercent(stats.Present+stats.Late, stats.TotalClasses)
	stats.PresentWithLatePercentage = &pwl
	return stats
}

// ComputeAllStats groups records by course name, preserving the order of
// first appearance, and aggregates each group independently.
func ComputeAllStats(records []AttendanceRecord) []CourseStats {
	courses := make([]string, 0)
	groups := make(map[string][]AttendanceRecord)
	for _, rec := range records {
		if _, ok := groups[rec.CourseName]; !ok {
			courses = append(courses, rec.CourseName)
		}
		groups[rec.CourseName] = append(groups[rec.CourseName], rec)
	}

	allStats := make([]CourseStats, 0, len(courses))
	for _, courseName := range courses {
		stats := countStatuses(groups[courseName])
		stats.CourseName = courseName
		allStats = append(allStats, stats)
	}
	return allStats
}

func countStatuses(records []AttendanceRecord) CourseStats {
	stats := CourseStats{TotalClasses: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLate:
			stats.Late++
		case StatusExcused:
			stats.Excused++
		}
	}
	stats.AttendancePercentage = NewPercent(stats.Present, stats.TotalClasses)
	return stats
}

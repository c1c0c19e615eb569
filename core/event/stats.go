package event

// TodayStats counts a day's events by the four headline classifications.
// Total covers the whole set: other classifications are excluded from the
// buckets but still counted in Total.
type TodayStats struct {
	Classes     int `json:"classes"`
	Assignments int `json:"assignments"`
	Exams       int `json:"exams"`
	Meetings    int `json:"meetings"`
	Total       int `json:"total"`
}

// ComputeTodayStats is a pure function of the already-filtered slice.
func ComputeTodayStats(events []Event) TodayStats {
	stats := TodayStats{Total: len(events)}
	for _, evt := range events {
		switch evt.Classification {
		case ClassificationClass:
			stats.Classes++
		case ClassificationAssignment:
			stats.Assignments++
		case ClassificationExam:
			stats.Exams++
		case ClassificationMeeting:
			stats.Meetings++
		}
	}
	return stats
}

// DayCounts partitions a day's events into tasks (assignment, deadline,
// exam) and plain events; Total is the sum of both partitions.
type DayCounts struct {
	Events int `json:"events"`
	Tasks  int `json:"tasks"`
	Total  int `json:"total"`
}

// ComputeDayCounts is a pure function of the already-filtered slice.
func ComputeDayCounts(events []Event) DayCounts {
	counts := DayCounts{Total: len(events)}
	for _, evt := range events {
		if IsTask(evt.Classification) {
			counts.Tasks++
		} else {
			counts.Events++
		}
	}
	return counts
}

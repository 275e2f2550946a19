// internal/engine/normalizer/hours.go
package normalizer

import "sitegen-workers/internal/models"

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// BuildSchedule groups raw hour periods into a per-weekday schedule and
// reports whether the business is open around the clock: every day of the
// week must have at least one period spanning midnight to midnight.
func BuildSchedule(periods []models.HoursPeriod) (map[string][]models.HourRange, bool) {
	schedule := make(map[string][]models.HourRange)
	fullDays := make(map[string]bool)

	for _, p := range periods {
		if p.Day == "" {
			continue
		}
		schedule[p.Day] = append(schedule[p.Day], models.HourRange{
			Open:  p.Open,
			Close: p.Close,
		})
		if spansFullDay(p) {
			fullDays[p.Day] = true
		}
	}

	always := true
	for _, day := range weekdays {
		if !fullDays[day] {
			always = false
			break
		}
	}
	return schedule, always
}

func spansFullDay(p models.HoursPeriod) bool {
	return opensAtMidnight(p.Open) && closesAtMidnight(p.Close)
}

func opensAtMidnight(open string) bool {
	switch open {
	case "", "0", "00:00", "0000":
		return true
	}
	return false
}

func closesAtMidnight(close string) bool {
	switch close {
	case "", "24", "24:00", "2400", "00:00":
		return true
	}
	return false
}

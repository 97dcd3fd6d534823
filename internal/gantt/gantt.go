// Package gantt computes a week-aligned, day-granular timeline layout for
// schedule items. Callers convert the day offsets and durations to rendering
// units using TotalDays as the denominator.
package gantt

import (
	"math"
	"sort"
	"time"

	"github.com/hmasuda/sitework/internal/models"
)

const day = 24 * time.Hour

// Bar is the layout of one schedule item. Actual fields are nil when the item
// has no actual start date.
type Bar struct {
	ItemID             string
	ProcessName        string
	Status             models.Status
	PlannedStartOffset int
	PlannedDuration    int
	ActualStartOffset  *int
	ActualDuration     *int
}

// Layout is a time grid spanning whole weeks, Monday through Sunday.
// Timeline holds one instant per 7-day step for the chart header.
type Layout struct {
	Start     time.Time
	End       time.Time
	Timeline  []time.Time
	TotalDays int
	Bars      []Bar
}

// Compute builds the layout for items. now is used to size the actual bar of
// items that have started but not finished; it is the engine's only
// time-dependent input, so two calls with the same items and now are
// identical. An empty item list yields a zero layout, which callers render as
// "no chart".
func Compute(items []models.ScheduleItem, now time.Time) Layout {
	if len(items) == 0 {
		return Layout{}
	}

	ordered := make([]models.ScheduleItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	minDate, maxDate := dateRange(ordered)
	start := snapToMonday(minDate)
	end := snapToSunday(maxDate)
	totalDays := daysCeil(start, end)

	var timeline []time.Time
	for i := 0; i <= totalDays; i += 7 {
		timeline = append(timeline, start.AddDate(0, 0, i))
	}

	bars := make([]Bar, len(ordered))
	for i, it := range ordered {
		b := Bar{
			ItemID:             it.ID,
			ProcessName:        it.ProcessName,
			Status:             it.Status.Normalize(),
			PlannedStartOffset: daysFloor(start, it.PlannedStart),
			PlannedDuration:    daysCeil(it.PlannedStart, it.PlannedEnd) + 1,
		}
		if it.ActualStart != nil {
			off := daysFloor(start, *it.ActualStart)
			b.ActualStartOffset = &off
			var dur int
			if it.ActualEnd != nil {
				dur = daysCeil(*it.ActualStart, *it.ActualEnd) + 1
			} else {
				// Open range: the actual bar grows up to now on each render.
				dur = daysCeil(*it.ActualStart, now) + 1
			}
			b.ActualDuration = &dur
		}
		bars[i] = b
	}

	return Layout{
		Start:     start,
		End:       end,
		Timeline:  timeline,
		TotalDays: totalDays,
		Bars:      bars,
	}
}

// dateRange returns the earliest and latest instants among all planned and
// actual dates.
func dateRange(items []models.ScheduleItem) (time.Time, time.Time) {
	min, max := items[0].PlannedStart, items[0].PlannedStart
	observe := func(t time.Time) {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	for _, it := range items {
		observe(it.PlannedStart)
		observe(it.PlannedEnd)
		if it.ActualStart != nil {
			observe(*it.ActualStart)
		}
		if it.ActualEnd != nil {
			observe(*it.ActualEnd)
		}
	}
	return min, max
}

// snapToMonday returns the most recent Monday on or before t.
func snapToMonday(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -back)
}

// snapToSunday returns the next Sunday on or after t.
func snapToSunday(t time.Time) time.Time {
	fwd := (7 - int(t.Weekday())) % 7
	return t.AddDate(0, 0, fwd)
}

func daysFloor(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

func daysCeil(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

package gantt

import (
	"testing"
	"time"

	"github.com/hmasuda/sitework/internal/models"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dp(s string) *time.Time {
	t := d(s)
	return &t
}

func TestCompute_Empty(t *testing.T) {
	layout := Compute(nil, d("2024-03-01"))
	if layout.TotalDays != 0 || len(layout.Bars) != 0 || len(layout.Timeline) != 0 {
		t.Errorf("Compute(nil) = %+v, want zero layout", layout)
	}
}

func TestCompute_WeekSnapping(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "a", ProcessName: "groundwork", PlannedStart: d("2024-01-20"), PlannedEnd: d("2024-02-10")},
		{ID: "b", ProcessName: "framing", PlannedStart: d("2024-02-05"), PlannedEnd: d("2024-06-05"), OrderIndex: 1},
	}
	layout := Compute(items, d("2024-03-01"))

	// 2024-01-20 is a Saturday; the grid starts on the Monday before.
	if got, want := layout.Start, d("2024-01-15"); !got.Equal(want) {
		t.Errorf("Start = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
	// 2024-06-05 is a Wednesday; the grid ends on the Sunday after.
	if got, want := layout.End, d("2024-06-09"); !got.Equal(want) {
		t.Errorf("End = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
	if layout.TotalDays != 146 {
		t.Errorf("TotalDays = %d, want 146", layout.TotalDays)
	}
	if len(layout.Timeline) != 21 {
		t.Fatalf("len(Timeline) = %d, want 21", len(layout.Timeline))
	}
	if !layout.Timeline[0].Equal(layout.Start) {
		t.Errorf("Timeline[0] = %s, want Start", layout.Timeline[0].Format("2006-01-02"))
	}
	if got, want := layout.Timeline[1], d("2024-01-22"); !got.Equal(want) {
		t.Errorf("Timeline[1] = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
	if got, want := layout.Timeline[20], d("2024-06-03"); !got.Equal(want) {
		t.Errorf("Timeline[20] = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestCompute_MondayAndSundayKeepPlace(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "a", ProcessName: "p", PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-21")},
	}
	layout := Compute(items, d("2024-01-15"))
	if !layout.Start.Equal(d("2024-01-15")) {
		t.Errorf("Start = %s, want 2024-01-15 (already Monday)", layout.Start.Format("2006-01-02"))
	}
	if !layout.End.Equal(d("2024-01-21")) {
		t.Errorf("End = %s, want 2024-01-21 (already Sunday)", layout.End.Format("2006-01-02"))
	}
	if layout.TotalDays != 6 {
		t.Errorf("TotalDays = %d, want 6", layout.TotalDays)
	}
	if len(layout.Timeline) != 1 {
		t.Errorf("len(Timeline) = %d, want 1", len(layout.Timeline))
	}
}

func TestCompute_PlannedBar(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "a", ProcessName: "p", PlannedStart: d("2024-01-17"), PlannedEnd: d("2024-01-19")},
	}
	layout := Compute(items, d("2024-01-20"))
	if len(layout.Bars) != 1 {
		t.Fatalf("len(Bars) = %d, want 1", len(layout.Bars))
	}
	b := layout.Bars[0]
	// Grid starts Monday 2024-01-15, so Wednesday is offset 2.
	if b.PlannedStartOffset != 2 {
		t.Errorf("PlannedStartOffset = %d, want 2", b.PlannedStartOffset)
	}
	// Wed through Fri inclusive is 3 days.
	if b.PlannedDuration != 3 {
		t.Errorf("PlannedDuration = %d, want 3", b.PlannedDuration)
	}
	if b.ActualStartOffset != nil || b.ActualDuration != nil {
		t.Errorf("Actual fields = (%v, %v), want nil", b.ActualStartOffset, b.ActualDuration)
	}
}

func TestCompute_SameDayPlannedDurationIsOne(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "a", ProcessName: "p", PlannedStart: d("2024-01-17"), PlannedEnd: d("2024-01-17")},
	}
	layout := Compute(items, d("2024-01-18"))
	if got := layout.Bars[0].PlannedDuration; got != 1 {
		t.Errorf("PlannedDuration = %d, want 1", got)
	}
}

func TestCompute_ClosedActualRange(t *testing.T) {
	items := []models.ScheduleItem{
		{
			ID: "a", ProcessName: "p",
			PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-21"),
			ActualStart: dp("2024-01-16"), ActualEnd: dp("2024-01-18"),
			Status: models.StatusCompleted,
		},
	}
	layout := Compute(items, d("2024-05-01"))
	b := layout.Bars[0]
	if b.ActualStartOffset == nil || *b.ActualStartOffset != 1 {
		t.Fatalf("ActualStartOffset = %v, want 1", b.ActualStartOffset)
	}
	if b.ActualDuration == nil || *b.ActualDuration != 3 {
		t.Errorf("ActualDuration = %v, want 3", b.ActualDuration)
	}
}

func TestCompute_OpenActualRangeGrowsWithNow(t *testing.T) {
	items := []models.ScheduleItem{
		{
			ID: "a", ProcessName: "p",
			PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-21"),
			ActualStart: dp("2024-01-16"),
			Status:      models.StatusInProgress,
		},
	}
	early := Compute(items, d("2024-01-17"))
	late := Compute(items, d("2024-01-20"))

	if got := *early.Bars[0].ActualDuration; got != 2 {
		t.Errorf("ActualDuration at 01-17 = %d, want 2", got)
	}
	if got := *late.Bars[0].ActualDuration; got != 5 {
		t.Errorf("ActualDuration at 01-20 = %d, want 5", got)
	}
}

func TestCompute_ActualDatesExtendRange(t *testing.T) {
	items := []models.ScheduleItem{
		{
			ID: "a", ProcessName: "p",
			PlannedStart: d("2024-01-16"), PlannedEnd: d("2024-01-18"),
			ActualStart: dp("2024-01-10"), ActualEnd: dp("2024-01-25"),
		},
	}
	layout := Compute(items, d("2024-02-01"))
	if !layout.Start.Equal(d("2024-01-08")) {
		t.Errorf("Start = %s, want 2024-01-08 (Monday before actual start)", layout.Start.Format("2006-01-02"))
	}
	if !layout.End.Equal(d("2024-01-28")) {
		t.Errorf("End = %s, want 2024-01-28 (Sunday after actual end)", layout.End.Format("2006-01-02"))
	}
}

func TestCompute_BarsSortedByOrderIndex(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "c", ProcessName: "third", PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-16"), OrderIndex: 2},
		{ID: "a", ProcessName: "first", PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-16"), OrderIndex: 0},
		{ID: "b", ProcessName: "second", PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-16"), OrderIndex: 1},
	}
	layout := Compute(items, d("2024-01-20"))
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if layout.Bars[i].ItemID != id {
			t.Errorf("Bars[%d].ItemID = %q, want %q", i, layout.Bars[i].ItemID, id)
		}
	}
}

func TestCompute_NormalizesStatus(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "a", ProcessName: "p", PlannedStart: d("2024-01-15"), PlannedEnd: d("2024-01-16"), Status: "bogus"},
	}
	layout := Compute(items, d("2024-01-20"))
	if got := layout.Bars[0].Status; got != models.StatusNotStarted {
		t.Errorf("Status = %q, want not_started", got)
	}
}

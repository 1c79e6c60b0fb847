package evaluation

import "testing"

func TestAllZeroMonths(t *testing.T) {
	cuts := make([]int, MonthsPerYear)
	excluded := make([]bool, MonthsPerYear)
	if got := MonthlyAverage(cuts, excluded); got != 0 {
		t.Fatalf("expected average 0, got %d", got)
	}
	if got := ForecastTotal(cuts, excluded); got != 0 {
		t.Fatalf("expected forecast 0, got %d", got)
	}
	if got := CutScore(0); got != 5 {
		t.Fatalf("expected score 5, got %d", got)
	}
}

func TestCutScoreCurve(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{0, 5},
		{5999, 5},
		{6000, 15},
		{6099, 15},
		{6100, 16},
		{9500, 50},
		{100000, 50},
	}
	for _, tc := range cases {
		if got := CutScore(tc.total); got != tc.want {
			t.Fatalf("CutScore(%d): expected %d, got %d", tc.total, tc.want, got)
		}
	}
}

func TestCutScoreMonotonic(t *testing.T) {
	prev := CutScore(0)
	for total := 1; total <= 12000; total += 7 {
		got := CutScore(total)
		if got < prev {
			t.Fatalf("score dropped at %d: %d < %d", total, got, prev)
		}
		if total < PerformanceThreshold && got != PerformanceFloor {
			t.Fatalf("expected floor below threshold at %d, got %d", total, got)
		}
		if got < PerformanceFloor || got > PerformanceMax {
			t.Fatalf("score %d out of bounds at %d", got, total)
		}
		prev = got
	}
}

func TestHalfYearScenario(t *testing.T) {
	cuts := []int{500, 500, 500, 500, 500, 500, 0, 0, 0, 0, 0, 0}
	excluded := make([]bool, MonthsPerYear)

	if got := MonthlyAverage(cuts, excluded); got != 500 {
		t.Fatalf("expected average 500, got %d", got)
	}
	forecast := ForecastTotal(cuts, excluded)
	if forecast != 6000 {
		t.Fatalf("expected forecast 6000, got %d", forecast)
	}
	if got := CutScore(forecast); got != 15 {
		t.Fatalf("expected score 15, got %d", got)
	}
	if got := CurrentTotal(cuts); got != 3000 {
		t.Fatalf("expected current total 3000, got %d", got)
	}
}

func TestExcludedMonthIgnoredByAverage(t *testing.T) {
	cuts := []int{400, 600, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	excluded := make([]bool, MonthsPerYear)
	excluded[1] = true

	base := MonthlyAverage(cuts, excluded)
	for _, v := range []int{0, 1, 250, 99999} {
		cuts[1] = v
		if got := MonthlyAverage(cuts, excluded); got != base {
			t.Fatalf("excluded month value %d changed average: %d != %d", v, got, base)
		}
	}
	if base != 400 {
		t.Fatalf("expected average 400, got %d", base)
	}
}

func TestExcludedEmptyMonthNotBackfilled(t *testing.T) {
	cuts := []int{600, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	excluded := make([]bool, MonthsPerYear)
	excluded[1] = true

	// 600 plus ten backfilled months; the excluded month contributes nothing.
	if got := ForecastTotal(cuts, excluded); got != 600*11 {
		t.Fatalf("expected forecast %d, got %d", 600*11, got)
	}

	cuts[1] = 300
	if got := ForecastTotal(cuts, excluded); got != 600+300+600*10 {
		t.Fatalf("expected excluded month's own value to count, got %d", got)
	}
}

func TestCurrentTotalIgnoresExclusion(t *testing.T) {
	cuts := []int{100, 200, 300}
	if got := CurrentTotal(cuts); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
}

func TestAverageRoundsHalfUp(t *testing.T) {
	cuts := []int{1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if got := MonthlyAverage(cuts, nil); got != 2 {
		t.Fatalf("expected 1.5 to round to 2, got %d", got)
	}
	cuts = []int{1, 1, 2}
	if got := MonthlyAverage(cuts, nil); got != 1 {
		t.Fatalf("expected 1.33 to round to 1, got %d", got)
	}
}

func TestPartialArraysNormalized(t *testing.T) {
	if got := ForecastTotal([]int{500, -20}, []bool{false}); got != 500*MonthsPerYear {
		t.Fatalf("expected short input padded and negatives clamped, got %d", got)
	}
	long := make([]int, 20)
	for i := range long {
		long[i] = 100
	}
	if got := CurrentTotal(long); got != 1200 {
		t.Fatalf("expected truncation to twelve months, got %d", got)
	}
}

func TestDeterministic(t *testing.T) {
	data := PerformanceData{
		MonthlyCuts:         []int{512, 487, 530, 0, 610, 0, 0, 0, 0, 0, 0, 0},
		ExcludedFromAverage: []bool{false, false, false, true},
		GoalCuts:            7200,
		MonthlyHolidays:     8,
	}
	first := ComputePerformance(data)
	for i := 0; i < 20; i++ {
		if got := ComputePerformance(data); got != first {
			t.Fatalf("expected identical output, got %+v vs %+v", got, first)
		}
	}
}

func TestComputePerformance(t *testing.T) {
	data := PerformanceData{
		MonthlyCuts:     []int{500, 500, 500, 500, 500, 500},
		GoalCuts:        7200,
		MonthlyHolidays: 8,
	}
	got := ComputePerformance(data)
	want := PerformanceMetrics{
		CurrentTotal:    3000,
		Average:         500,
		ForecastTotal:   6000,
		EmptyMonths:     6,
		Score:           15,
		GoalScore:       27,
		GoalAchievement: 83,
		MonthlyGoal:     600,
		DailyRate:       22.7,
	}
	if got != want {
		t.Fatalf("unexpected metrics:\n got  %+v\n want %+v", got, want)
	}
}

func TestGoalHelpersZeroGoal(t *testing.T) {
	if got := GoalAchievement(6000, 0); got != 0 {
		t.Fatalf("expected 0 achievement without goal, got %d", got)
	}
	if got := MonthlyGoal(0); got != 0 {
		t.Fatalf("expected 0 monthly goal, got %d", got)
	}
	if got := GoalScore(0); got != PerformanceFloor {
		t.Fatalf("expected floor goal score, got %d", got)
	}
}

func TestDailyRateClampsWorkingDays(t *testing.T) {
	if got := DailyRate(500, 40); got != 500 {
		t.Fatalf("expected one-day floor, got %v", got)
	}
	if got := DailyRate(0, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

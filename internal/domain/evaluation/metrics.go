package evaluation

import "math"

// PerformanceMetrics bundles the derived productivity figures shown on the performance panel.
type PerformanceMetrics struct {
	CurrentTotal    int     `json:"currentTotal"`
	Average         int     `json:"average"`
	ForecastTotal   int     `json:"forecastTotal"`
	EmptyMonths     int     `json:"emptyMonths"`
	Score           int     `json:"score"`
	GoalScore       int     `json:"goalScore"`
	GoalAchievement int     `json:"goalAchievement"`
	MonthlyGoal     int     `json:"monthlyGoal"`
	DailyRate       float64 `json:"dailyRate"`
}

// MonthlyAverage averages the months that are reported (> 0) and not excluded.
func MonthlyAverage(monthlyCuts []int, excluded []bool) int {
	cuts, flags := normalizeMonths(monthlyCuts, excluded)
	validSum, validCount := 0, 0
	for i, v := range cuts {
		if flags[i] || v <= 0 {
			continue
		}
		validSum += v
		validCount++
	}
	if validCount == 0 {
		return 0
	}
	return roundRatio(validSum, validCount)
}

// CurrentTotal is the literal sum of what has been entered; exclusion flags do not apply.
func CurrentTotal(monthlyCuts []int) int {
	cuts, _ := normalizeMonths(monthlyCuts, nil)
	total := 0
	for _, v := range cuts {
		total += v
	}
	return total
}

// ForecastTotal fills unreported, non-excluded months with the average.
// An excluded month with no value contributes nothing.
func ForecastTotal(monthlyCuts []int, excluded []bool) int {
	cuts, flags := normalizeMonths(monthlyCuts, excluded)
	average := MonthlyAverage(cuts, flags)
	total := 0
	for i, v := range cuts {
		switch {
		case v > 0:
			total += v
		case !flags[i]:
			total += average
		}
	}
	return total
}

// CutScore maps an annual count to [PerformanceFloor, PerformanceMax].
// The jump from 5 to 15 at the threshold is policy.
func CutScore(total int) int {
	if total < PerformanceThreshold {
		return PerformanceFloor
	}
	score := PerformanceBase + (total-PerformanceThreshold)/PerformanceStep
	if score > PerformanceMax {
		return PerformanceMax
	}
	return score
}

// GoalScore is the score the stated annual goal would earn.
func GoalScore(goalCuts int) int {
	return CutScore(goalCuts)
}

func GoalAchievement(forecastTotal, goalCuts int) int {
	if goalCuts <= 0 {
		return 0
	}
	return roundRatio(forecastTotal*100, goalCuts)
}

func MonthlyGoal(goalCuts int) int {
	if goalCuts <= 0 {
		return 0
	}
	return roundRatio(goalCuts, MonthsPerYear)
}

// DailyRate spreads the monthly average over the working days left after holidays, one decimal.
func DailyRate(average, monthlyHolidays int) float64 {
	workingDays := DaysPerMonth - monthlyHolidays
	if workingDays < 1 {
		workingDays = 1
	}
	return math.Floor(float64(average)/float64(workingDays)*10+0.5) / 10
}

func EmptyMonths(monthlyCuts []int) int {
	cuts, _ := normalizeMonths(monthlyCuts, nil)
	empty := 0
	for _, v := range cuts {
		if v == 0 {
			empty++
		}
	}
	return empty
}

func ComputePerformance(data PerformanceData) PerformanceMetrics {
	cuts, flags := normalizeMonths(data.MonthlyCuts, data.ExcludedFromAverage)
	average := MonthlyAverage(cuts, flags)
	forecast := ForecastTotal(cuts, flags)
	return PerformanceMetrics{
		CurrentTotal:    CurrentTotal(cuts),
		Average:         average,
		ForecastTotal:   forecast,
		EmptyMonths:     EmptyMonths(cuts),
		Score:           CutScore(forecast),
		GoalScore:       GoalScore(data.GoalCuts),
		GoalAchievement: GoalAchievement(forecast, data.GoalCuts),
		MonthlyGoal:     MonthlyGoal(data.GoalCuts),
		DailyRate:       DailyRate(average, data.MonthlyHolidays),
	}
}

// normalizeMonths pads or truncates to twelve months and clamps negative counts to zero.
// The sheet produces partial arrays while a month is being typed.
func normalizeMonths(monthlyCuts []int, excluded []bool) ([]int, []bool) {
	cuts := make([]int, MonthsPerYear)
	flags := make([]bool, MonthsPerYear)
	for i := 0; i < MonthsPerYear; i++ {
		if i < len(monthlyCuts) && monthlyCuts[i] > 0 {
			cuts[i] = monthlyCuts[i]
		}
		if i < len(excluded) {
			flags[i] = excluded[i]
		}
	}
	return cuts, flags
}

// roundRatio is num/den rounded half up, 0 when den is 0.
func roundRatio(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Floor(float64(num)/float64(den) + 0.5))
}

package evaluation

// RadarPoint is one spoke of a radar chart. B is only set when a comparison is shown.
type RadarPoint struct {
	Key      string `json:"key"`
	Subject  string `json:"subject"`
	A        int    `json:"a"`
	B        *int   `json:"b,omitempty"`
	FullMark int    `json:"fullMark"`
}

type LinePoint struct {
	Month string `json:"month"`
	Cuts  *int   `json:"cuts"`
	Goal  int    `json:"goal"`
}

type Charts struct {
	Staff           []RadarPoint `json:"staff"`
	Manager         []RadarPoint `json:"manager,omitempty"`
	Monthly         []LinePoint  `json:"monthly"`
	ManagerUnlocked bool         `json:"managerUnlocked"`
}

// StaffRadar computes the axis percentages for a record and, when given, its comparison.
func StaffRadar(items []Item, performanceScore int, comparison *Record) []RadarPoint {
	points := make([]RadarPoint, 0, len(Axes))
	for _, axis := range Axes {
		point := RadarPoint{
			Key:      axis,
			Subject:  AxisLabels[axis],
			A:        AxisPercentage(items, axis, performanceScore),
			FullMark: 100,
		}
		if comparison != nil {
			point.B = intPtr(AxisPercentage(comparison.Items, axis, comparison.PerformanceScore))
		}
		points = append(points, point)
	}
	return points
}

func ManagerRadar(items []Item) []RadarPoint {
	points := make([]RadarPoint, 0, len(ManagerSubCategories))
	for _, sub := range ManagerSubCategories {
		points = append(points, RadarPoint{
			Key:      sub,
			Subject:  SubCategoryLabels[sub],
			A:        SubCategoryPercentage(items, sub),
			FullMark: 100,
		})
	}
	return points
}

// MonthlyLine plots the entered cuts against an even monthly share of the goal.
// Months with no value are nil so the line has a gap.
func MonthlyLine(data PerformanceData) []LinePoint {
	cuts, _ := normalizeMonths(data.MonthlyCuts, nil)
	goal := MonthlyGoal(data.GoalCuts)
	points := make([]LinePoint, 0, MonthsPerYear)
	for idx, label := range MonthLabels {
		point := LinePoint{Month: label, Goal: goal}
		if cuts[idx] > 0 {
			point.Cuts = intPtr(cuts[idx])
		}
		points = append(points, point)
	}
	return points
}

// BuildCharts assembles every chart for a record. The manager radar is omitted while locked.
func BuildCharts(r Record) Charts {
	charts := Charts{
		Staff:           StaffRadar(r.Items, r.PerformanceScore, r.Comparison),
		Monthly:         MonthlyLine(r.Metadata.Performance),
		ManagerUnlocked: ManagerUnlocked(r.Items),
	}
	if charts.ManagerUnlocked {
		charts.Manager = ManagerRadar(r.Items)
	}
	return charts
}

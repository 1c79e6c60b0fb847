package evaluation

// CategoryTotal sums graded scores in one category; ungraded items count as 0.
func CategoryTotal(items []Item, category string) int {
	total := 0
	for _, item := range items {
		if item.Category == category {
			total += item.ScoreValue()
		}
	}
	return total
}

func SubCategoryTotal(items []Item, subCategory string) int {
	total := 0
	for _, item := range items {
		if item.SubCategory == subCategory {
			total += item.ScoreValue()
		}
	}
	return total
}

// GrandTotal is the 200-point total. Manager items are excluded.
func GrandTotal(items []Item, performanceScore int) int {
	total := performanceScore
	for _, category := range ScoredCategories {
		total += CategoryTotal(items, category)
	}
	return total
}

// AxisPercentage feeds the staff radar. The productivity axis comes from the
// performance score; every other axis is Σscore/Σmax over positive-max items.
func AxisPercentage(items []Item, axis string, performanceScore int) int {
	if axis == AxisProductivity {
		return clampPercent(roundRatio(performanceScore*100, PerformanceMax))
	}
	return ratioPercent(items, func(item Item) bool { return item.Axis == axis })
}

// SubCategoryPercentage feeds the manager radar.
func SubCategoryPercentage(items []Item, subCategory string) int {
	return ratioPercent(items, func(item Item) bool { return item.SubCategory == subCategory })
}

func ratioPercent(items []Item, match func(Item) bool) int {
	sum, maxSum, found := 0, 0, false
	for _, item := range items {
		if item.Max <= 0 || !match(item) {
			continue
		}
		found = true
		sum += item.ScoreValue()
		maxSum += item.Max
	}
	if !found || maxSum == 0 {
		return 0
	}
	return clampPercent(roundRatio(sum*100, maxSum))
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ResolveIncidentScore is the only way an incident item's score is set.
// Improvements can shrink a deduction but never turn it positive.
func ResolveIncidentScore(incidents []Incident) int {
	total := 0
	for _, inc := range incidents {
		total += inc.Deduction + inc.Improvement
	}
	if total > 0 {
		return 0
	}
	return total
}

// ManagerUnlocked reports whether any manager item has been graded,
// which is how a saved sheet remembers the manager section was opened.
func ManagerUnlocked(items []Item) bool {
	for _, item := range items {
		if item.Category == CategoryManager && item.Score != nil {
			return true
		}
	}
	return false
}

type ManagerGroups struct {
	OperationsAndCustomer int `json:"operationsAndCustomer"`
	TeamAndStrategy       int `json:"teamAndStrategy"`
	ProblemSolving        int `json:"problemSolving"`
	PersonalAndCompliance int `json:"personalAndCompliance"`
}

type Dashboard struct {
	Relationship     int                `json:"relationship"`
	Service          int                `json:"service"`
	Technical        int                `json:"technical"`
	Performance      int                `json:"performance"`
	Total            int                `json:"total"`
	Manager          int                `json:"manager"`
	ManagerGroups    ManagerGroups      `json:"managerGroups"`
	ManagerUnlocked  bool               `json:"managerUnlocked"`
	Graded           int                `json:"graded"`
	Ungraded         int                `json:"ungraded"`
	Caps             map[string]int     `json:"caps"`
	PerformanceStats PerformanceMetrics `json:"performanceStats"`
}

func BuildDashboard(items []Item, performanceScore int, performance PerformanceData) Dashboard {
	d := Dashboard{
		Relationship:    CategoryTotal(items, CategoryRelationship),
		Service:         CategoryTotal(items, CategoryService),
		Technical:       CategoryTotal(items, CategoryTechnical),
		Performance:     performanceScore,
		Total:           GrandTotal(items, performanceScore),
		Manager:         CategoryTotal(items, CategoryManager),
		ManagerUnlocked: ManagerUnlocked(items),
		ManagerGroups: ManagerGroups{
			OperationsAndCustomer: SubCategoryTotal(items, SubCategoryOperations) + SubCategoryTotal(items, SubCategoryCustomerSkill),
			TeamAndStrategy:       SubCategoryTotal(items, SubCategoryTeam) + SubCategoryTotal(items, SubCategoryStrategy),
			ProblemSolving:        SubCategoryTotal(items, SubCategoryProblem),
			PersonalAndCompliance: SubCategoryTotal(items, SubCategoryPersonal) + SubCategoryTotal(items, SubCategoryCompliance),
		},
		Caps: map[string]int{
			CategoryRelationship: RelationshipCap,
			CategoryService:      ServiceCap,
			CategoryTechnical:    TechnicalCap,
			CategoryPerformance:  PerformanceCap,
			CategoryManager:      ManagerCap,
			"total":              TotalCap,
		},
		PerformanceStats: ComputePerformance(performance),
	}
	for _, item := range items {
		if item.IsGraded() {
			d.Graded++
		} else {
			d.Ungraded++
		}
	}
	return d
}

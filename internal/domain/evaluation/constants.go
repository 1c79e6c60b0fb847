package evaluation

const (
	CategoryRelationship = "relationship"
	CategoryService      = "service"
	CategoryTechnical    = "technical"
	CategoryPerformance  = "performance"
	CategoryManager      = "manager"

	SubCategoryClaim    = "claim"
	SubCategoryAccident = "accident"

	SubCategoryOperations    = "operations"
	SubCategoryCustomerSkill = "customer_service_skill"
	SubCategoryTeam          = "team_management"
	SubCategoryStrategy      = "strategic_thinking"
	SubCategoryProblem       = "problem_solving"
	SubCategoryPersonal      = "personal_attributes"
	SubCategoryCompliance    = "compliance"

	AxisRelationship = "relationship"
	AxisHospitality  = "hospitality"
	AxisTechnique    = "technique"
	AxisTeamwork     = "teamwork"
	AxisDiscipline   = "discipline"
	// AxisProductivity is scored from the performance score, not from items.
	AxisProductivity = "productivity"

	ItemKindStandard = "standard"
	ItemKindIncident = "incident"
)

// Scoring curve for annual cut counts.
const (
	MonthsPerYear        = 12
	PerformanceThreshold = 6000
	PerformanceFloor     = 5
	PerformanceBase      = 15
	PerformanceStep      = 100
	PerformanceMax       = 50
)

// Display caps. Nothing enforces them; item ranges keep sums inside.
const (
	RelationshipCap = 50
	ServiceCap      = 50
	TechnicalCap    = 50
	PerformanceCap  = PerformanceMax
	TotalCap        = RelationshipCap + ServiceCap + TechnicalCap + PerformanceCap
	ManagerCap      = 70
)

const (
	IndexKey      = "qb_staff_index_v1"
	DataKeyPrefix = "qb_data_"
)

// DaysPerMonth is the nominal month used for the daily-rate display.
const DaysPerMonth = 30

var Categories = []string{CategoryRelationship, CategoryService, CategoryTechnical, CategoryPerformance, CategoryManager}

// ScoredCategories feed the 200-point total; the manager sheet is tracked separately.
var ScoredCategories = []string{CategoryRelationship, CategoryService, CategoryTechnical}

var Axes = []string{AxisRelationship, AxisHospitality, AxisTechnique, AxisTeamwork, AxisDiscipline, AxisProductivity}

var ManagerSubCategories = []string{
	SubCategoryOperations,
	SubCategoryCustomerSkill,
	SubCategoryTeam,
	SubCategoryStrategy,
	SubCategoryProblem,
	SubCategoryPersonal,
	SubCategoryCompliance,
}

// MonthLabels follow the fiscal year, which opens in July.
var MonthLabels = [MonthsPerYear]string{"Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// NegativeChoices are the picker values offered for deduction items without explicit valid scores.
var NegativeChoices = []int{0, -1, -2, -3, -4, -5, -10, -15}

var CategoryLabels = map[string]string{
	CategoryRelationship: "Relationship",
	CategoryService:      "Customer Service",
	CategoryTechnical:    "Technical",
	CategoryPerformance:  "Performance",
	CategoryManager:      "Store Manager",
}

var AxisLabels = map[string]string{
	AxisRelationship: "Relationship",
	AxisHospitality:  "Hospitality",
	AxisTechnique:    "Technique",
	AxisTeamwork:     "Teamwork",
	AxisDiscipline:   "Discipline",
	AxisProductivity: "Productivity",
}

var SubCategoryLabels = map[string]string{
	SubCategoryOperations:    "Operations",
	SubCategoryCustomerSkill: "Customer Service Skill",
	SubCategoryTeam:          "Team Management",
	SubCategoryStrategy:      "Strategic Thinking",
	SubCategoryProblem:       "Problem Solving",
	SubCategoryPersonal:      "Personal Attributes",
	SubCategoryCompliance:    "Compliance",
}

package interview

// StoreKey is where the whole interview list lives, one JSON array.
const StoreKey = "qb_interview_records"

const (
	ImportanceHigh   = "High"
	ImportanceMiddle = "Middle"
	ImportanceLow    = "Low"

	StatusCompleted          = "Completed"
	StatusFollowUpRequired   = "FollowUpRequired"
	StatusNextActionRequired = "NextActionRequired"
)

var Importances = []string{ImportanceHigh, ImportanceMiddle, ImportanceLow}

var Statuses = []string{StatusCompleted, StatusFollowUpRequired, StatusNextActionRequired}

var StatusLabels = map[string]string{
	StatusCompleted:          "Completed",
	StatusFollowUpRequired:   "Manager follow-up required",
	StatusNextActionRequired: "Action needed next time",
}

// MeetingTypes is the fixed topic list offered by the interview form. The last entry is the catch-all.
var MeetingTypes = []string{
	"Evaluation and career plan",
	"Store environment improvements",
	"Customer service attitude and skills",
	"Motivation and job satisfaction",
	"Progress, goals and achievement",
	"Technical skills and training needs",
	"Work-life balance and stress",
	"Team communication and cooperation",
	"Other",
}

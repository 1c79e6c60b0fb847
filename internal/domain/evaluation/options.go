package evaluation

import "slices"

const (
	DeductionTableAccident = "accident"
	DeductionTableTech     = "tech"
	DeductionTableService  = "service"
)

type Option struct {
	Label string `json:"label"`
	Score int    `json:"score"`
	Desc  string `json:"desc"`
}

var DeductionTables = map[string][]Option{
	DeductionTableAccident: {
		{Label: "A", Score: -10, Desc: "Injury to a customer or staff member"},
		{Label: "B", Score: -5, Desc: "Equipment damage or near miss reported late"},
		{Label: "C", Score: -3, Desc: "Near miss reported on the day"},
		{Label: "D", Score: -1, Desc: "Minor hygiene or safety lapse"},
	},
	DeductionTableTech: {
		{Label: "A", Score: -5, Desc: "Free redo requested and a refund issued"},
		{Label: "B", Score: -3, Desc: "Free redo requested"},
		{Label: "C", Score: -2, Desc: "Customer complaint about the finish"},
		{Label: "D", Score: -1, Desc: "Minor correction requested on the spot"},
	},
	DeductionTableService: {
		{Label: "A", Score: -10, Desc: "Complaint escalated to head office"},
		{Label: "B", Score: -5, Desc: "Complaint received by phone or online"},
		{Label: "C", Score: -3, Desc: "Complaint received in store"},
		{Label: "D", Score: -2, Desc: "Repeated rule violation after warning"},
		{Label: "E", Score: -1, Desc: "Single rule violation"},
	},
}

var ImprovementOptions = []Option{
	{Label: "-", Score: 0, Desc: "No improvement yet"},
	{Label: "+1", Score: 1, Desc: "Acknowledged and apologised"},
	{Label: "+2", Score: 2, Desc: "Corrective action taken"},
	{Label: "+3", Score: 3, Desc: "Recurrence prevented for three months"},
	{Label: "+5", Score: 5, Desc: "Turned the complaint into a repeat customer"},
}

// DeductionTableKey selects which deduction list applies to an incident item.
func DeductionTableKey(item Item) string {
	switch {
	case item.SubCategory == SubCategoryAccident:
		return DeductionTableAccident
	case item.Category == CategoryTechnical:
		return DeductionTableTech
	default:
		return DeductionTableService
	}
}

func DeductionOptions(item Item) []Option {
	return DeductionTables[DeductionTableKey(item)]
}

func optionScores(options []Option) []int {
	out := make([]int, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Score)
	}
	return out
}

// AllowedDeduction reports whether a deduction may be recorded against the item.
// Zero is always accepted so a half-filled incident can be saved.
func AllowedDeduction(item Item, deduction int) bool {
	return deduction == 0 || slices.Contains(optionScores(DeductionOptions(item)), deduction)
}

func AllowedImprovement(improvement int) bool {
	return slices.Contains(optionScores(ImprovementOptions), improvement)
}

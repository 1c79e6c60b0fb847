package evaluation

import "strings"

// Item is one checklist row. Kind discriminates the scoring path:
// standard items take a score directly, incident items derive it from Incidents.
type Item struct {
	No          int            `json:"no" yaml:"no"`
	Kind        string         `json:"kind" yaml:"kind"`
	Category    string         `json:"category" yaml:"category"`
	SubCategory string         `json:"subCategory" yaml:"subCategory"`
	Title       string         `json:"item" yaml:"item"`
	Axis        string         `json:"axis" yaml:"axis"`
	Max         int            `json:"max" yaml:"max"`
	Score       *int           `json:"score" yaml:"-"`
	Description string         `json:"desc" yaml:"desc"`
	PointDesc   string         `json:"pointDesc,omitempty" yaml:"pointDesc,omitempty"`
	Criteria    map[int]string `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	ValidScores []int          `json:"validScores,omitempty" yaml:"validScores,omitempty"`
	Incidents   []Incident     `json:"incidents,omitempty" yaml:"-"`
	Memo        string         `json:"memo,omitempty" yaml:"-"`
	// Memos is the older multi-entry memo list, kept only for display of legacy records.
	Memos []string `json:"memos,omitempty" yaml:"-"`
}

type Incident struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"desc"`
	Deduction   int    `json:"deduction"`
	Improvement int    `json:"improvement"`
}

type PerformanceData struct {
	MonthlyCuts         []int  `json:"monthlyCuts"`
	ExcludedFromAverage []bool `json:"excludedFromAverage"`
	GoalCuts            int    `json:"goalCuts"`
	GoalScore           int    `json:"goalScore"`
	MonthlyHolidays     int    `json:"monthlyHolidays"`
}

type Metadata struct {
	ID          string          `json:"id"`
	Store       string          `json:"store" validate:"max=100"`
	Name        string          `json:"name" validate:"max=100"`
	EmployeeID  string          `json:"employeeId" validate:"max=50"`
	Evaluator   string          `json:"evaluator" validate:"max=100"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	UpdatedAt   int64           `json:"updatedAt"`
	Performance PerformanceData `json:"performance"`
}

// Record is the persisted evaluation sheet. PerformanceScore caches the engine output.
type Record struct {
	Metadata         Metadata `json:"metadata"`
	Items            []Item   `json:"items"`
	PerformanceScore int      `json:"performanceScore"`
	Comparison       *Record  `json:"comparison,omitempty"`
}

// Summary is one index entry. It must match the record's UpdatedAt whenever the record exists.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Store     string `json:"store"`
	Date      string `json:"date"`
	UpdatedAt int64  `json:"updatedAt"`
}

func (i Item) IsIncident() bool {
	return i.Kind == ItemKindIncident
}

func (i Item) IsGraded() bool {
	return i.Score != nil
}

func (i Item) ScoreValue() int {
	if i.Score == nil {
		return 0
	}
	return *i.Score
}

// DisplayMemo prefers the single memo and falls back to the legacy list.
func (i Item) DisplayMemo() string {
	if strings.TrimSpace(i.Memo) != "" {
		return i.Memo
	}
	if len(i.Memos) > 0 {
		return strings.Join(i.Memos, " / ")
	}
	return ""
}

func (r Record) Summary() Summary {
	return Summary{
		ID:        r.Metadata.ID,
		Name:      r.Metadata.Name,
		Store:     r.Metadata.Store,
		Date:      r.Metadata.Date,
		UpdatedAt: r.Metadata.UpdatedAt,
	}
}

func (r Record) Item(no int) (Item, bool) {
	for _, item := range r.Items {
		if item.No == no {
			return item, true
		}
	}
	return Item{}, false
}

// Clone deep-copies every slice so edits never alias the source record.
func (r Record) Clone() Record {
	out := r
	out.Items = cloneItems(r.Items)
	out.Metadata.Performance = r.Metadata.Performance.clone()
	if r.Comparison != nil {
		comp := r.Comparison.Clone()
		out.Comparison = &comp
	}
	return out
}

func (p PerformanceData) clone() PerformanceData {
	out := p
	out.MonthlyCuts = append([]int(nil), p.MonthlyCuts...)
	out.ExcludedFromAverage = append([]bool(nil), p.ExcludedFromAverage...)
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for idx, item := range items {
		out[idx] = item.clone()
	}
	return out
}

func (i Item) clone() Item {
	out := i
	if i.Score != nil {
		out.Score = intPtr(*i.Score)
	}
	out.ValidScores = append([]int(nil), i.ValidScores...)
	if i.Incidents != nil {
		out.Incidents = append([]Incident{}, i.Incidents...)
	}
	out.Memos = append([]string(nil), i.Memos...)
	if i.Criteria != nil {
		out.Criteria = make(map[int]string, len(i.Criteria))
		for k, v := range i.Criteria {
			out.Criteria[k] = v
		}
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

// NewPerformanceData returns the all-zero state a fresh record starts with.
func NewPerformanceData() PerformanceData {
	return PerformanceData{
		MonthlyCuts:         make([]int, MonthsPerYear),
		ExcludedFromAverage: make([]bool, MonthsPerYear),
	}
}

package evaluation

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// AllowedScores lists the values a standard item accepts, in picker order.
// Incident items return nil because their score is never chosen.
func AllowedScores(item Item) []int {
	if item.IsIncident() {
		return nil
	}
	if len(item.ValidScores) > 0 {
		return append([]int(nil), item.ValidScores...)
	}
	if item.Max < 0 {
		out := make([]int, 0, len(NegativeChoices))
		for _, v := range NegativeChoices {
			if v >= item.Max {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]int, 0, item.Max+1)
	for v := 0; v <= item.Max; v++ {
		out = append(out, v)
	}
	return out
}

// ValidateScore checks a direct score edit. A nil score clears the grade.
func ValidateScore(item Item, score *int) error {
	if item.IsIncident() {
		return ErrDerivedScore
	}
	if score == nil {
		return nil
	}
	if len(item.ValidScores) > 0 {
		if !slices.Contains(item.ValidScores, *score) {
			return fmt.Errorf("%w: %d not in %v", ErrScoreOutOfRange, *score, item.ValidScores)
		}
		return nil
	}
	lo, hi := 0, item.Max
	if item.Max < 0 {
		lo, hi = item.Max, 0
	}
	if *score < lo || *score > hi {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrScoreOutOfRange, *score, lo, hi)
	}
	return nil
}

func (r Record) itemIndex(no int) (int, error) {
	for idx := range r.Items {
		if r.Items[idx].No == no {
			return idx, nil
		}
	}
	return -1, fmt.Errorf("%w: no %d", ErrItemNotFound, no)
}

// WithScore returns a copy of the record with one standard item graded.
func (r Record) WithScore(no int, score *int) (Record, error) {
	idx, err := r.itemIndex(no)
	if err != nil {
		return r, err
	}
	if err := ValidateScore(r.Items[idx], score); err != nil {
		return r, err
	}
	out := r.Clone()
	if score == nil {
		out.Items[idx].Score = nil
	} else {
		out.Items[idx].Score = intPtr(*score)
	}
	return out, nil
}

// WithMemo sets the authoritative memo and drops the legacy memo list.
func (r Record) WithMemo(no int, memo string) (Record, error) {
	idx, err := r.itemIndex(no)
	if err != nil {
		return r, err
	}
	out := r.Clone()
	out.Items[idx].Memo = memo
	out.Items[idx].Memos = nil
	return out, nil
}

// WithIncident appends an incident and re-derives the item score.
// An empty ID is filled with a fresh one.
func (r Record) WithIncident(no int, incident Incident) (Record, Incident, error) {
	idx, err := r.itemIndex(no)
	if err != nil {
		return r, Incident{}, err
	}
	item := r.Items[idx]
	if !item.IsIncident() {
		return r, Incident{}, ErrNotIncidentItem
	}
	if !AllowedDeduction(item, incident.Deduction) {
		return r, Incident{}, fmt.Errorf("%w: %d", ErrInvalidDeduction, incident.Deduction)
	}
	if !AllowedImprovement(incident.Improvement) {
		return r, Incident{}, fmt.Errorf("%w: %d", ErrInvalidImprovement, incident.Improvement)
	}
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	out := r.Clone()
	target := &out.Items[idx]
	target.Incidents = append(target.Incidents, incident)
	target.Score = intPtr(ResolveIncidentScore(target.Incidents))
	return out, incident, nil
}

func (r Record) WithoutIncident(no int, incidentID string) (Record, error) {
	idx, err := r.itemIndex(no)
	if err != nil {
		return r, err
	}
	if !r.Items[idx].IsIncident() {
		return r, ErrNotIncidentItem
	}
	pos := slices.IndexFunc(r.Items[idx].Incidents, func(inc Incident) bool { return inc.ID == incidentID })
	if pos < 0 {
		return r, fmt.Errorf("%w: %s", ErrIncidentNotFound, incidentID)
	}
	out := r.Clone()
	target := &out.Items[idx]
	target.Incidents = slices.Delete(target.Incidents, pos, pos+1)
	target.Score = intPtr(ResolveIncidentScore(target.Incidents))
	return out, nil
}

// WithoutManagerScores ungrades every manager item, locking the manager radar again.
func (r Record) WithoutManagerScores() Record {
	out := r.Clone()
	for idx := range out.Items {
		if out.Items[idx].Category == CategoryManager {
			out.Items[idx].Score = nil
		}
	}
	return out
}

// WithPerformance replaces the monthly data and refreshes the cached scores.
func (r Record) WithPerformance(data PerformanceData) Record {
	out := r.Clone()
	out.Metadata.Performance = normalizePerformance(data)
	return out.Recompute()
}

// WithMetadata replaces the evaluee fields. Identity, timestamps and performance data are kept.
func (r Record) WithMetadata(meta Metadata) Record {
	out := r.Clone()
	meta.ID = r.Metadata.ID
	meta.UpdatedAt = r.Metadata.UpdatedAt
	meta.Performance = out.Metadata.Performance
	out.Metadata = meta
	return out
}

// Recompute refreshes every derived value from the record's own inputs.
func (r Record) Recompute() Record {
	out := r.Clone()
	for idx := range out.Items {
		if out.Items[idx].IsIncident() {
			out.Items[idx].Score = intPtr(ResolveIncidentScore(out.Items[idx].Incidents))
		}
	}
	perf := out.Metadata.Performance
	out.PerformanceScore = CutScore(ForecastTotal(perf.MonthlyCuts, perf.ExcludedFromAverage))
	out.Metadata.Performance.GoalScore = GoalScore(perf.GoalCuts)
	return out
}

// NewRecord starts a blank sheet over the given catalog.
func NewRecord(id string, items []Item) Record {
	rec := Record{
		Metadata: Metadata{
			ID:          id,
			Performance: NewPerformanceData(),
		},
		Items:            cloneItems(items),
		PerformanceScore: PerformanceFloor,
	}
	for idx := range rec.Items {
		rec.Items[idx].Score = nil
		rec.Items[idx].Incidents = nil
		rec.Items[idx].Memo = ""
		rec.Items[idx].Memos = nil
		if rec.Items[idx].IsIncident() {
			rec.Items[idx].Score = intPtr(0)
		}
	}
	rec.Metadata.Performance.GoalScore = GoalScore(0)
	return rec
}

// CopyFrom starts a blank sheet for the same person in the same store.
func CopyFrom(id string, source Summary, items []Item) Record {
	rec := NewRecord(id, items)
	rec.Metadata.Store = source.Store
	rec.Metadata.Name = source.Name
	return rec
}

// Normalize repairs a record read from storage: short performance arrays,
// items saved before kinds existed, and a stale cached performance score.
func Normalize(r Record) Record {
	out := r.Clone()
	out.Metadata.Performance = normalizePerformance(out.Metadata.Performance)
	for idx := range out.Items {
		out.Items[idx] = canonicalLabels(out.Items[idx])
		if out.Items[idx].Kind == "" {
			out.Items[idx].Kind = inferKind(out.Items[idx])
		}
	}
	if out.PerformanceScore < PerformanceFloor || out.PerformanceScore > PerformanceMax {
		return out.Recompute()
	}
	for idx := range out.Items {
		if out.Items[idx].IsIncident() {
			out.Items[idx].Score = intPtr(ResolveIncidentScore(out.Items[idx].Incidents))
		}
	}
	return out
}

// Conform rebuilds items on trusted definitions matched by No. Only the graded state
// (score, memo, memos, incidents) comes from items; defs supply kind, category, axis,
// max and the score set. An item number missing from defs is ErrItemNotFound.
func Conform(items, defs []Item) ([]Item, error) {
	sent := make(map[int]Item, len(items))
	for _, item := range items {
		sent[item.No] = item
	}
	known := make(map[int]bool, len(defs))
	out := make([]Item, 0, len(defs))
	for _, def := range cloneItems(defs) {
		known[def.No] = true
		item, ok := sent[def.No]
		if !ok {
			out = append(out, def)
			continue
		}
		def.Memo = item.Memo
		def.Memos = append([]string(nil), item.Memos...)
		if def.IsIncident() {
			for _, inc := range item.Incidents {
				if !AllowedDeduction(def, inc.Deduction) {
					return nil, fmt.Errorf("item %d: %w: %d", def.No, ErrInvalidDeduction, inc.Deduction)
				}
				if !AllowedImprovement(inc.Improvement) {
					return nil, fmt.Errorf("item %d: %w: %d", def.No, ErrInvalidImprovement, inc.Improvement)
				}
			}
			def.Incidents = append([]Incident{}, item.Incidents...)
			def.Score = intPtr(ResolveIncidentScore(def.Incidents))
		} else {
			def.Incidents = nil
			def.Score = nil
			if item.Score != nil {
				def.Score = intPtr(*item.Score)
			}
		}
		out = append(out, def)
	}
	for _, item := range items {
		if !known[item.No] {
			return nil, fmt.Errorf("%w: %d", ErrItemNotFound, item.No)
		}
	}
	return out, nil
}

func inferKind(item Item) string {
	if len(item.Incidents) > 0 || item.SubCategory == SubCategoryClaim || item.SubCategory == SubCategoryAccident {
		return ItemKindIncident
	}
	return ItemKindStandard
}

func normalizePerformance(data PerformanceData) PerformanceData {
	cuts, flags := normalizeMonths(data.MonthlyCuts, data.ExcludedFromAverage)
	data.MonthlyCuts = cuts
	data.ExcludedFromAverage = flags
	if data.GoalCuts < 0 {
		data.GoalCuts = 0
	}
	if data.MonthlyHolidays < 0 {
		data.MonthlyHolidays = 0
	}
	return data
}

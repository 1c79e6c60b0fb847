package evaluation

import (
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

type CategoryTotals struct {
	Relationship int `json:"relationship"`
	Service      int `json:"service"`
	Technical    int `json:"technical"`
	Performance  int `json:"performance"`
	Total        int `json:"total"`
	Manager      int `json:"manager"`
}

type HistoryEntry struct {
	Summary
	Totals CategoryTotals `json:"totals"`
}

type HistoryMonth struct {
	Label   string         `json:"label"`
	Entries []HistoryEntry `json:"entries"`
}

type HistoryTerm struct {
	FiscalYear int            `json:"fiscalYear"`
	Label      string         `json:"label"`
	Months     []HistoryMonth `json:"months"`
}

func TotalsOf(r Record) CategoryTotals {
	return CategoryTotals{
		Relationship: CategoryTotal(r.Items, CategoryRelationship),
		Service:      CategoryTotal(r.Items, CategoryService),
		Technical:    CategoryTotal(r.Items, CategoryTechnical),
		Performance:  r.PerformanceScore,
		Total:        GrandTotal(r.Items, r.PerformanceScore),
		Manager:      CategoryTotal(r.Items, CategoryManager),
	}
}

// FiscalYear names the term by the June it closes in; July opens the next one.
func FiscalYear(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year() + 1
	}
	return t.Year()
}

// SameEvaluee keeps the summaries that belong to the same person in the same store.
// Both name and store must be set for anything to match.
func SameEvaluee(summaries []Summary, name, store string) []Summary {
	if name == "" || store == "" {
		return nil
	}
	out := make([]Summary, 0)
	for _, s := range summaries {
		if s.Name == name && s.Store == store {
			out = append(out, s)
		}
	}
	return out
}

// GroupHistory buckets entries by fiscal term and calendar month, newest first.
// Entries without a parseable date fall back to their save time.
func GroupHistory(entries []HistoryEntry) []HistoryTerm {
	type monthKey struct{ year, month int }
	terms := map[int]map[monthKey][]HistoryEntry{}
	for _, entry := range entries {
		at := entryTime(entry.Summary)
		fy := FiscalYear(at)
		if terms[fy] == nil {
			terms[fy] = map[monthKey][]HistoryEntry{}
		}
		key := monthKey{at.Year(), int(at.Month())}
		terms[fy][key] = append(terms[fy][key], entry)
	}

	out := make([]HistoryTerm, 0, len(terms))
	for fy, months := range terms {
		keys := make([]monthKey, 0, len(months))
		for key := range months {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].year != keys[j].year {
				return keys[i].year > keys[j].year
			}
			return keys[i].month > keys[j].month
		})
		term := HistoryTerm{FiscalYear: fy, Label: fmt.Sprintf("FY%d (ends June %d)", fy, fy)}
		for _, key := range keys {
			group := months[key]
			sort.SliceStable(group, func(i, j int) bool { return group[i].UpdatedAt > group[j].UpdatedAt })
			term.Months = append(term.Months, HistoryMonth{
				Label:   fmt.Sprintf("%04d-%02d", key.year, key.month),
				Entries: group,
			})
		}
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear > out[j].FiscalYear })
	return out
}

func entryTime(s Summary) time.Time {
	if t, err := time.Parse(dateLayout, s.Date); err == nil {
		return t
	}
	return time.UnixMilli(s.UpdatedAt).UTC()
}

package evaluation

import (
	"encoding/json"
	"errors"
	"testing"
)

func legacyPayload(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func TestParseLegacyDump(t *testing.T) {
	record := legacyPayload(t, map[string]any{
		"metadata": map[string]any{
			"id": "abc", "name": "Sato", "store": "Ginza", "date": "2025-01-10", "updatedAt": 1700000000000,
			"performance": map[string]any{"monthlyCuts": []int{500, 500}, "goalCuts": 6000},
		},
		"items": []map[string]any{
			{"no": 1, "category": "relationship", "max": 10, "score": 7, "memos": []string{"a"}},
			{"no": 12, "category": "service", "subCategory": "claim", "max": -20, "score": nil,
				"incidents": []map[string]any{{"id": "i1", "deduction": -3, "improvement": 0}}},
		},
		"performanceScore": 15,
	})
	dump := legacyPayload(t, map[string]string{
		IndexKey:              "[]",
		DataKeyPrefix + "abc": record,
		InterviewKey:          "[]",
	})

	parsed, err := ParseLegacyDump([]byte(dump))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Records) != 1 || string(parsed.Interviews) != "[]" {
		t.Fatalf("unexpected dump: %+v", parsed)
	}
	rec := parsed.Records[0]
	if rec.Metadata.Name != "Sato" || len(rec.Metadata.Performance.MonthlyCuts) != MonthsPerYear {
		t.Fatalf("unexpected metadata: %+v", rec.Metadata)
	}
	if item, _ := rec.Item(12); !item.IsIncident() || item.ScoreValue() != -3 {
		t.Fatalf("expected incident item re-derived, got %+v", item)
	}
	if item, _ := rec.Item(1); item.DisplayMemo() != "a" {
		t.Fatalf("expected legacy memo kept, got %q", item.DisplayMemo())
	}
}

func TestParseLegacyDumpRejectsUnknownKeys(t *testing.T) {
	dump := legacyPayload(t, map[string]string{"something_else": "x"})
	_, err := ParseLegacyDump([]byte(dump))
	var importErr *ImportError
	if !errors.As(err, &importErr) || !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ImportError, got %v", err)
	}
}

func TestParseLegacyDumpRejectsBadRecord(t *testing.T) {
	dump := legacyPayload(t, map[string]string{DataKeyPrefix + "abc": `{"metadata":{"id":"abc"}}`})
	if _, err := ParseLegacyDump([]byte(dump)); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected missing items to fail, got %v", err)
	}
}

func TestParseLegacyDumpRejectsMismatchedID(t *testing.T) {
	dump := legacyPayload(t, map[string]string{DataKeyPrefix + "abc": `{"metadata":{"id":"zzz"},"items":[]}`})
	if _, err := ParseLegacyDump([]byte(dump)); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected id mismatch to fail, got %v", err)
	}
}

func TestParseLegacyDumpMapsDisplayLabels(t *testing.T) {
	record := legacyPayload(t, map[string]any{
		"metadata": map[string]any{"id": "jp1", "name": "Sato", "store": "Ginza", "date": "2025-01-10"},
		"items": []map[string]any{
			{"no": 1, "category": "関係性", "subCategory": "挨拶", "axis": "関係性", "max": 10, "score": 7},
			{"no": 12, "category": "接客", "subCategory": "クレーム", "max": -20, "score": -6},
			{"no": 19, "category": "技術", "subCategory": "事故", "max": -20, "score": nil,
				"incidents": []map[string]any{{"id": "i1", "deduction": -5, "improvement": 2}}},
			{"no": 20, "category": "店長", "subCategory": "運営管理スキル", "max": 5, "score": 4},
		},
		"performanceScore": 15,
	})
	dump := legacyPayload(t, map[string]string{DataKeyPrefix + "jp1": record})

	parsed, err := ParseLegacyDump([]byte(dump))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rec := parsed.Records[0]
	if got := CategoryTotal(rec.Items, CategoryRelationship); got != 7 {
		t.Fatalf("expected relationship total 7, got %d", got)
	}
	claim, _ := rec.Item(12)
	if claim.Category != CategoryService || !claim.IsIncident() || claim.ScoreValue() != 0 {
		t.Fatalf("expected claim item without incidents to derive 0, got %+v", claim)
	}
	accident, _ := rec.Item(19)
	if accident.SubCategory != SubCategoryAccident || accident.ScoreValue() != -3 {
		t.Fatalf("expected accident item mapped, got %+v", accident)
	}
	mgr, _ := rec.Item(20)
	if mgr.Category != CategoryManager || mgr.SubCategory != SubCategoryOperations || !ManagerUnlocked(rec.Items) {
		t.Fatalf("expected manager item recognised, got %+v", mgr)
	}
	if got := GrandTotal(rec.Items, rec.PerformanceScore); got != 7+0-3+15 {
		t.Fatalf("expected grand total without manager, got %d", got)
	}
}

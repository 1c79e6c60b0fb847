package evaluation

import "testing"

func scored(no int, category, axis string, max int, score *int) Item {
	return Item{No: no, Kind: ItemKindStandard, Category: category, Axis: axis, Max: max, Score: score}
}

func TestCategoryTotalSkipsUngraded(t *testing.T) {
	items := []Item{
		scored(1, CategoryRelationship, AxisRelationship, 10, intPtr(7)),
		scored(2, CategoryRelationship, AxisTeamwork, 10, nil),
		scored(3, CategoryRelationship, AxisDiscipline, -15, intPtr(-3)),
		scored(4, CategoryService, AxisHospitality, 10, intPtr(10)),
	}
	if got := CategoryTotal(items, CategoryRelationship); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := CategoryTotal(nil, CategoryRelationship); got != 0 {
		t.Fatalf("expected empty total 0, got %d", got)
	}
}

func TestGrandTotalExcludesManager(t *testing.T) {
	items := []Item{
		scored(1, CategoryRelationship, AxisRelationship, 10, intPtr(10)),
		scored(2, CategoryService, AxisHospitality, 10, intPtr(7)),
		scored(3, CategoryTechnical, AxisTechnique, 10, intPtr(4)),
		scored(4, CategoryManager, "", 5, intPtr(5)),
	}
	if got := GrandTotal(items, 15); got != 36 {
		t.Fatalf("expected 36, got %d", got)
	}
}

func TestAxisPercentage(t *testing.T) {
	items := []Item{
		scored(1, CategoryRelationship, AxisRelationship, 10, intPtr(7)),
		scored(2, CategoryRelationship, AxisRelationship, 10, nil),
		scored(3, CategoryRelationship, AxisRelationship, -15, intPtr(-15)),
	}
	if got := AxisPercentage(items, AxisRelationship, 0); got != 35 {
		t.Fatalf("expected 35, got %d", got)
	}
	if got := AxisPercentage(items, AxisHospitality, 0); got != 0 {
		t.Fatalf("expected 0 for axis without items, got %d", got)
	}
	if got := AxisPercentage(items, AxisProductivity, 15); got != 30 {
		t.Fatalf("expected productivity 30, got %d", got)
	}
	if got := AxisPercentage(items, AxisProductivity, 50); got != 100 {
		t.Fatalf("expected productivity 100, got %d", got)
	}
}

func TestAxisPercentageAlwaysBounded(t *testing.T) {
	broken := []Item{
		scored(1, CategoryService, AxisHospitality, 10, intPtr(40)),
		scored(2, CategoryService, AxisTeamwork, 10, intPtr(-40)),
	}
	for _, axis := range Axes {
		for _, perf := range []int{-10, 0, 5, 50, 120} {
			for _, items := range [][]Item{nil, broken, DefaultItems()} {
				got := AxisPercentage(items, axis, perf)
				if got < 0 || got > 100 {
					t.Fatalf("axis %s perf %d: %d out of range", axis, perf, got)
				}
			}
		}
	}
}

func TestResolveIncidentScore(t *testing.T) {
	cases := []struct {
		name      string
		incidents []Incident
		want      int
	}{
		{"empty", nil, 0},
		{"single", []Incident{{Deduction: -10}}, -10},
		{"offset", []Incident{{Deduction: -10, Improvement: 5}}, -5},
		{"capped", []Incident{{Deduction: -3, Improvement: 10}}, 0},
		{"summed", []Incident{{Deduction: -5, Improvement: 1}, {Deduction: -3, Improvement: 2}}, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveIncidentScore(tc.incidents); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCategoryTotalIdempotent(t *testing.T) {
	items := DefaultItems()
	items[0].Score = intPtr(7)
	items[6].Score = intPtr(10)
	first := CategoryTotal(items, CategoryRelationship)

	feedback := []Item{scored(99, CategoryRelationship, AxisRelationship, first, intPtr(first))}
	if got := CategoryTotal(feedback, CategoryRelationship); got != first {
		t.Fatalf("expected %d on round trip, got %d", first, got)
	}
	if got := CategoryTotal(items, CategoryRelationship); got != first {
		t.Fatalf("expected stable total, got %d", got)
	}
}

func TestManagerUnlocked(t *testing.T) {
	items := DefaultItems()
	if ManagerUnlocked(items) {
		t.Fatal("expected fresh catalog to be locked")
	}
	for idx := range items {
		if items[idx].Category == CategoryManager {
			items[idx].Score = intPtr(0)
			break
		}
	}
	if !ManagerUnlocked(items) {
		t.Fatal("expected a graded manager item to unlock")
	}
}

func TestBuildDashboard(t *testing.T) {
	rec := NewRecord("r1", DefaultItems())
	rec, _ = rec.WithScore(1, intPtr(10))
	rec, _ = rec.WithScore(7, intPtr(7))
	rec, _ = rec.WithScore(13, intPtr(4))

	d := BuildDashboard(rec.Items, 15, rec.Metadata.Performance)
	if d.Relationship != 10 || d.Service != 7 || d.Technical != 4 {
		t.Fatalf("unexpected category totals: %+v", d)
	}
	if d.Total != 36 {
		t.Fatalf("expected total 36, got %d", d.Total)
	}
	if d.Caps["total"] != 200 || d.Caps[CategoryManager] != 70 {
		t.Fatalf("unexpected caps: %+v", d.Caps)
	}
	// Incident items start graded at 0.
	if d.Graded != 6 {
		t.Fatalf("expected 6 graded items, got %d", d.Graded)
	}
	if d.Graded+d.Ungraded != len(rec.Items) {
		t.Fatalf("graded+ungraded should cover every item")
	}
}

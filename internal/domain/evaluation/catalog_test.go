package evaluation

import (
	"strings"
	"testing"
)

func TestDefaultCatalogShape(t *testing.T) {
	items := DefaultItems()
	caps := map[string]int{
		CategoryRelationship: RelationshipCap,
		CategoryService:      ServiceCap,
		CategoryTechnical:    TechnicalCap,
		CategoryManager:      ManagerCap,
	}
	sums := map[string]int{}
	for _, item := range items {
		if item.Max > 0 {
			sums[item.Category] += item.Max
		}
		if item.Category != CategoryManager && item.Axis == "" {
			t.Fatalf("item %d has no radar axis", item.No)
		}
		if item.IsIncident() && item.Max >= 0 {
			t.Fatalf("incident item %d should be deduction-only", item.No)
		}
	}
	for category, want := range caps {
		if sums[category] != want {
			t.Fatalf("category %s: positive max sum %d, want %d", category, sums[category], want)
		}
	}
	for _, sub := range ManagerSubCategories {
		if len(CategoryItems(items, CategoryManager)) == 0 || SubCategoryPercentage(items, sub) != 0 {
			t.Fatalf("manager subcategory %s should exist and start at 0", sub)
		}
	}
}

func TestDefaultItemsReturnsCopy(t *testing.T) {
	first := DefaultItems()
	first[0].Title = "changed"
	if DefaultItems()[0].Title == "changed" {
		t.Fatal("DefaultItems leaked shared state")
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	doc := `items:
  - no: 1
    category: relationship
    max: 3
  - no: 1
    category: service
    max: 3
`
	if _, err := ParseCatalog([]byte(doc)); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseCatalogInfersKind(t *testing.T) {
	doc := `items:
  - no: 1
    category: service
    subCategory: claim
    max: -10
  - no: 2
    category: service
    max: 3
`
	items, err := ParseCatalog([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if items[0].Kind != ItemKindIncident || items[1].Kind != ItemKindStandard {
		t.Fatalf("unexpected kinds: %q %q", items[0].Kind, items[1].Kind)
	}
}

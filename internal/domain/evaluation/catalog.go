package evaluation

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Items []Item `yaml:"items"`
}

var (
	catalogOnce  sync.Once
	catalogItems []Item
	catalogErr   error
)

// ParseCatalog decodes a catalog document and checks item numbers and kinds.
func ParseCatalog(data []byte) ([]Item, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[int]struct{}, len(file.Items))
	for idx, item := range file.Items {
		if item.No <= 0 {
			return nil, fmt.Errorf("catalog item %d: no must be positive", idx)
		}
		if _, dup := seen[item.No]; dup {
			return nil, fmt.Errorf("catalog item %d: duplicate no", item.No)
		}
		seen[item.No] = struct{}{}
		if item.Kind == "" {
			file.Items[idx].Kind = inferKind(item)
		}
		switch file.Items[idx].Kind {
		case ItemKindStandard, ItemKindIncident:
		default:
			return nil, fmt.Errorf("catalog item %d: unknown kind %q", item.No, item.Kind)
		}
	}
	return file.Items, nil
}

// DefaultItems returns a fresh copy of the embedded checklist.
func DefaultItems() []Item {
	catalogOnce.Do(func() {
		catalogItems, catalogErr = ParseCatalog(catalogYAML)
	})
	if catalogErr != nil {
		panic(catalogErr)
	}
	return cloneItems(catalogItems)
}

// CategoryItems filters a checklist by category, keeping catalog order.
func CategoryItems(items []Item, category string) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

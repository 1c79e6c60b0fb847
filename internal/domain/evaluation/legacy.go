package evaluation

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// InterviewKey is the browser-storage key the interview list was kept under.
const InterviewKey = "qb_interview_records"

const dumpSchema = `{
  "type": "object",
  "minProperties": 1,
  "patternProperties": {
    "^qb_data_.+$": {"type": "string", "minLength": 2},
    "^qb_staff_index_v1$": {"type": "string"},
    "^qb_interview_records$": {"type": "string"}
  },
  "additionalProperties": false
}`

const recordSchema = `{
  "type": "object",
  "required": ["metadata", "items"],
  "properties": {
    "metadata": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "updatedAt": {"type": "number"},
        "performance": {"type": "object"}
      }
    },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["no", "category", "max"],
        "properties": {
          "no": {"type": "integer", "minimum": 1},
          "max": {"type": "integer"},
          "score": {"type": ["integer", "null"]},
          "incidents": {"type": "array"}
        }
      }
    },
    "performanceScore": {"type": "number"}
  }
}`

// LegacyDump is a parsed browser-storage export.
type LegacyDump struct {
	Records []Record
	// Interviews is passed through untouched for the interview store to decode.
	Interviews []byte
}

type FieldError struct {
	Key     string
	Field   string
	Message string
}

type ImportError struct {
	Errors []FieldError
}

func (e *ImportError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrInvalidImport.Error())
	for _, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("; %s %s: %s", fe.Key, fe.Field, fe.Message))
	}
	return sb.String()
}

func (e *ImportError) Unwrap() error {
	return ErrInvalidImport
}

// The browser app stored display labels where records now carry keys.
var (
	legacyCategories = map[string]string{
		"関係性":  CategoryRelationship,
		"人間関係": CategoryRelationship,
		"接客":   CategoryService,
		"技術":   CategoryTechnical,
		"実績":   CategoryPerformance,
		"店長":   CategoryManager,
	}
	legacySubCategories = map[string]string{
		"クレーム":          SubCategoryClaim,
		"事故":            SubCategoryAccident,
		"運営管理スキル":       SubCategoryOperations,
		"顧客サービススキル":     SubCategoryCustomerSkill,
		"チームマネジメントスキル":  SubCategoryTeam,
		"戦略思考スキル":       SubCategoryStrategy,
		"問題解決スキル":       SubCategoryProblem,
		"個人の属性":         SubCategoryPersonal,
		"管理責任・コンプライアンス": SubCategoryCompliance,
	}
	legacyAxes = map[string]string{
		"実績": AxisProductivity,
	}
)

// canonicalLabels maps legacy display labels to keys. Unknown labels are kept.
func canonicalLabels(item Item) Item {
	if v, ok := legacyCategories[item.Category]; ok {
		item.Category = v
	}
	if v, ok := legacySubCategories[item.SubCategory]; ok {
		item.SubCategory = v
	}
	if v, ok := legacyAxes[item.Axis]; ok {
		item.Axis = v
	}
	return item
}

// fillFromCatalog repairs labels that are still unknown after mapping, taking them from the
// catalog item with the same number. Items without a catalog match are left as they are.
func fillFromCatalog(items, catalog []Item) []Item {
	defs := make(map[int]Item, len(catalog))
	for _, def := range catalog {
		defs[def.No] = def
	}
	out := cloneItems(items)
	for idx := range out {
		out[idx] = canonicalLabels(out[idx])
		item := &out[idx]
		def, ok := defs[item.No]
		if !ok {
			continue
		}
		if !slices.Contains(Categories, item.Category) {
			item.Category = def.Category
			item.SubCategory = def.SubCategory
			item.Kind = def.Kind
		}
		if item.Axis != "" && !slices.Contains(Axes, item.Axis) {
			item.Axis = def.Axis
		}
	}
	return out
}

// ParseLegacyDump validates and decodes a JSON object of storage keys to string values.
// The stored index is ignored; callers rebuild it from the records.
func ParseLegacyDump(data []byte) (LegacyDump, error) {
	if err := validateAgainst(dumpSchema, gojsonschema.NewBytesLoader(data), "(dump)"); err != nil {
		return LegacyDump{}, err
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return LegacyDump{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		if strings.HasPrefix(key, DataKeyPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	dump := LegacyDump{}
	if v, ok := raw[InterviewKey]; ok {
		dump.Interviews = []byte(v)
	}
	for _, key := range keys {
		payload := raw[key]
		if err := validateAgainst(recordSchema, gojsonschema.NewStringLoader(payload), key); err != nil {
			return LegacyDump{}, err
		}
		var rec Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return LegacyDump{}, fmt.Errorf("%w: %s: %v", ErrInvalidImport, key, err)
		}
		if want := strings.TrimPrefix(key, DataKeyPrefix); rec.Metadata.ID != want {
			return LegacyDump{}, &ImportError{Errors: []FieldError{{Key: key, Field: "metadata.id", Message: "does not match storage key"}}}
		}
		dump.Records = append(dump.Records, Normalize(rec))
	}
	return dump, nil
}

func validateAgainst(schema string, doc gojsonschema.JSONLoader, key string) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidImport, key, err)
	}
	if result.Valid() {
		return nil
	}
	importErr := &ImportError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		importErr.Errors = append(importErr.Errors, FieldError{Key: key, Field: field, Message: desc.Description()})
	}
	return importErr
}

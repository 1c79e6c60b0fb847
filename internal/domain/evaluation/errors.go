package evaluation

import "errors"

var (
	ErrRecordNotFound     = errors.New("evaluation record not found")
	ErrRecordCorrupt      = errors.New("evaluation record could not be parsed")
	ErrItemNotFound       = errors.New("evaluation item not found")
	ErrDerivedScore       = errors.New("score is derived from incidents and cannot be set directly")
	ErrScoreOutOfRange    = errors.New("score outside the item's valid range")
	ErrNotIncidentItem    = errors.New("item does not record incidents")
	ErrIncidentNotFound   = errors.New("incident not found")
	ErrInvalidDeduction   = errors.New("deduction is not one of the allowed options")
	ErrInvalidImprovement = errors.New("improvement is not one of the allowed options")
	ErrManagerLocked      = errors.New("manager section is locked")
	ErrInvalidImport      = errors.New("import payload failed schema validation")
)

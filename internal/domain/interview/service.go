package interview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	newID func() string
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, newID: uuid.NewString}
}

// List returns matching interviews, newest date first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Record, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]Record, 0, len(all))
	for _, rec := range all {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if query != "" && !matches(rec, query) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func matches(rec Record, query string) bool {
	fields := []string{
		rec.Date, rec.StoreName, rec.EmployeeName, rec.EmployeeID, rec.Interviewer, rec.Type,
		rec.Status, rec.Importance, rec.Details.MainContent, rec.Details.Concerns,
		rec.Details.NextAction, rec.Details.Impression,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range all {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrInterviewNotFound
}

// Save validates and upserts. A record without an id is new and gets one.
func (s *Service) Save(ctx context.Context, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Import merges an exported interview list. Invalid entries are skipped and counted.
func (s *Service) Import(ctx context.Context, raw []byte) (imported, skipped int, err error) {
	if len(raw) == 0 {
		return 0, 0, nil
	}
	recs, err := decode(raw)
	if err != nil {
		return 0, 0, err
	}
	valid := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		if verr := rec.Validate(); verr != nil {
			skipped++
			continue
		}
		valid = append(valid, rec)
	}
	if len(valid) == 0 {
		return 0, skipped, nil
	}
	if err := s.store.Merge(ctx, valid); err != nil {
		if errors.Is(err, ErrInterviewCorrupt) {
			return 0, skipped, fmt.Errorf("existing interviews: %w", err)
		}
		return 0, skipped, err
	}
	return len(valid), skipped, nil
}

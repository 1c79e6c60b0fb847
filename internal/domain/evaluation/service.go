package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Hooks lets the caller observe saves without the service knowing about metrics.
type Hooks struct {
	OnSave      func(Summary)
	OnRecompute func()
}

type Service struct {
	store  StoreAPI
	items  []Item
	hooks  Hooks
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(store StoreAPI, items []Item, hooks Hooks, logger *slog.Logger) *Service {
	if items == nil {
		items = DefaultItems()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		items:  items,
		hooks:  hooks,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Catalog returns a copy of the checklist new records start from.
func (s *Service) Catalog() []Item {
	return cloneItems(s.items)
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.store.ListSummaries(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.GetRecord(ctx, id)
}

func (s *Service) Create(ctx context.Context, meta Metadata) (Record, error) {
	if err := meta.Validate(); err != nil {
		return Record{}, err
	}
	rec := NewRecord(s.newID(), s.items).WithMetadata(meta)
	return s.Save(ctx, rec)
}

// CreateFrom starts a new sheet for the same person as an existing record.
func (s *Service) CreateFrom(ctx context.Context, sourceID string) (Record, error) {
	source, err := s.store.GetRecord(ctx, sourceID)
	if err != nil {
		return Record{}, err
	}
	return s.Save(ctx, CopyFrom(s.newID(), source.Summary(), s.items))
}

// Save recomputes derived values, stamps updatedAt and persists. Last write wins.
func (s *Service) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.Metadata.ID == "" {
		rec.Metadata.ID = s.newID()
	}
	rec = Normalize(rec).Recompute()
	rec.Comparison = nil
	rec.Metadata.UpdatedAt = s.nextUpdatedAt(rec.Metadata.UpdatedAt)
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	if s.hooks.OnRecompute != nil {
		s.hooks.OnRecompute()
	}
	if s.hooks.OnSave != nil {
		s.hooks.OnSave(rec.Summary())
	}
	s.logger.Debug("evaluation record saved", "id", rec.Metadata.ID, "updatedAt", rec.Metadata.UpdatedAt)
	return rec, nil
}

// nextUpdatedAt keeps timestamps strictly increasing per record even on fast repeated saves.
func (s *Service) nextUpdatedAt(prev int64) int64 {
	now := s.now().UnixMilli()
	if now <= prev {
		return prev + 1
	}
	return now
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRecord(ctx, id)
}

func (s *Service) mutate(ctx context.Context, id string, fn func(Record) (Record, error)) (Record, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, err
	}
	next, err := fn(rec)
	if err != nil {
		return Record{}, err
	}
	return s.Save(ctx, next)
}

// Replace stores a whole sheet sent by the editor. Item definitions come from the stored
// record, or the catalog for a new one, so only scores, memos and incidents are taken from rec.
// Direct scores must be in range, and manager scores may only change while unlocked.
func (s *Service) Replace(ctx context.Context, rec Record, managerUnlocked bool) (Record, error) {
	if err := rec.Metadata.Validate(); err != nil {
		return Record{}, err
	}
	defs := s.items
	existing, err := s.store.GetRecord(ctx, rec.Metadata.ID)
	switch {
	case err == nil:
		defs = existing.Items
	case errors.Is(err, ErrRecordNotFound):
		existing = Record{}
	default:
		return Record{}, err
	}
	items, err := Conform(rec.Items, defs)
	if err != nil {
		return Record{}, err
	}
	rec.Items = items
	rec = Normalize(rec)
	for _, item := range rec.Items {
		if item.IsIncident() {
			continue
		}
		if err := ValidateScore(item, item.Score); err != nil {
			return Record{}, fmt.Errorf("item %d: %w", item.No, err)
		}
	}
	if !managerUnlocked && managerScoresChanged(existing.Items, rec.Items) {
		return Record{}, ErrManagerLocked
	}
	return s.Save(ctx, rec)
}

func managerScoresChanged(before, after []Item) bool {
	prev := make(map[int]*int, len(before))
	for _, item := range before {
		if item.Category == CategoryManager {
			prev[item.No] = item.Score
		}
	}
	for _, item := range after {
		if item.Category != CategoryManager {
			continue
		}
		old := prev[item.No]
		switch {
		case old == nil && item.Score == nil:
		case old == nil || item.Score == nil || *old != *item.Score:
			return true
		}
	}
	return false
}

// UpdateScore grades one item. Manager items need the unlocked flag from the caller.
func (s *Service) UpdateScore(ctx context.Context, id string, no int, score *int, managerUnlocked bool) (Record, error) {
	return s.mutate(ctx, id, func(rec Record) (Record, error) {
		item, ok := rec.Item(no)
		if !ok {
			return rec, ErrItemNotFound
		}
		if item.Category == CategoryManager && !managerUnlocked {
			return rec, ErrManagerLocked
		}
		return rec.WithScore(no, score)
	})
}

// ClearManagerScores resets the manager section. It needs the unlocked flag like any manager edit.
func (s *Service) ClearManagerScores(ctx context.Context, id string, managerUnlocked bool) (Record, error) {
	if !managerUnlocked {
		return Record{}, ErrManagerLocked
	}
	return s.mutate(ctx, id, func(rec Record) (Record, error) {
		return rec.WithoutManagerScores(), nil
	})
}

func (s *Service) UpdateMemo(ctx context.Context, id string, no int, memo string) (Record, error) {
	return s.mutate(ctx, id, func(rec Record) (Record, error) {
		return rec.WithMemo(no, memo)
	})
}

func (s *Service) AddIncident(ctx context.Context, id string, no int, incident Incident) (Record, Incident, error) {
	var added Incident
	rec, err := s.mutate(ctx, id, func(rec Record) (Record, error) {
		next, inc, err := rec.WithIncident(no, incident)
		added = inc
		return next, err
	})
	if err != nil {
		return Record{}, Incident{}, err
	}
	return rec, added, nil
}

func (s *Service) RemoveIncident(ctx context.Context, id string, no int, incidentID string) (Record, error) {
	return s.mutate(ctx, id, func(rec Record) (Record, error) {
		return rec.WithoutIncident(no, incidentID)
	})
}

func (s *Service) UpdatePerformance(ctx context.Context, id string, data PerformanceData) (Record, error) {
	return s.mutate(ctx, id, func(rec Record) (Record, error) {
		return rec.WithPerformance(data), nil
	})
}

func (s *Service) UpdateMetadata(ctx context.Context, id string, meta Metadata) (Record, error) {
	if err := meta.Validate(); err != nil {
		return Record{}, err
	}
	return s.mutate(ctx, id, func(rec Record) (Record, error) {
		return rec.WithMetadata(meta), nil
	})
}

// Compare loads a record with another one attached for the radar B series. Nothing is saved.
func (s *Service) Compare(ctx context.Context, id, otherID string) (Record, error) {
	recs, err := s.LoadMany(ctx, []string{id, otherID})
	if err != nil {
		return Record{}, err
	}
	rec := recs[0]
	other := recs[1]
	other.Comparison = nil
	rec.Comparison = &other
	return rec, nil
}

// History lists earlier sheets for the same person and store, grouped by fiscal term.
func (s *Service) History(ctx context.Context, id string) ([]HistoryTerm, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	index, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	matches := SameEvaluee(index, rec.Metadata.Name, rec.Metadata.Store)
	ids := make([]string, len(matches))
	for idx, m := range matches {
		ids[idx] = m.ID
	}
	recs, err := s.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, len(recs))
	for idx, r := range recs {
		entries[idx] = HistoryEntry{Summary: r.Summary(), Totals: TotalsOf(r)}
	}
	return GroupHistory(entries), nil
}

// LoadMany reads records concurrently, preserving the order of ids.
func (s *Service) LoadMany(ctx context.Context, ids []string) ([]Record, error) {
	out := make([]Record, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for idx, id := range ids {
		g.Go(func() error {
			rec, err := s.store.GetRecord(ctx, id)
			if err != nil {
				return err
			}
			out[idx] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadAll reads every indexed record, newest first. Unreadable records are skipped and logged.
func (s *Service) LoadAll(ctx context.Context) ([]Record, error) {
	index, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(index))
	for _, entry := range index {
		rec, err := s.store.GetRecord(ctx, entry.ID)
		if errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrRecordCorrupt) {
			s.logger.Warn("skipping indexed record", "id", entry.ID, "err", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Import writes parsed legacy records in one batch, keeping their original timestamps.
func (s *Service) Import(ctx context.Context, dump LegacyDump) (int, error) {
	recs := make([]Record, 0, len(dump.Records))
	for _, rec := range dump.Records {
		rec.Items = fillFromCatalog(rec.Items, s.items)
		rec = Normalize(rec).Recompute()
		rec.Comparison = nil
		if rec.Metadata.UpdatedAt == 0 {
			rec.Metadata.UpdatedAt = s.now().UnixMilli()
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return 0, nil
	}
	if err := s.store.ImportRecords(ctx, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

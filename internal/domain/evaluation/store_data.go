package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"qbhouse/internal/platform/kv"
)

// Store keeps records and their summary index in the kv namespace.
// Every write touches both inside one transaction so the index never drifts.
type Store struct {
	KV     *kv.Store
	Logger *slog.Logger
}

func NewStore(store *kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{KV: store, Logger: logger}
}

func DataKey(id string) string {
	return DataKeyPrefix + id
}

func (s *Store) ListSummaries(ctx context.Context) ([]Summary, error) {
	return s.readIndex(ctx, s.KV.Bucket())
}

func (s *Store) GetRecord(ctx context.Context, id string) (Record, error) {
	return getRecord(ctx, s.KV.Bucket(), id)
}

func (s *Store) SaveRecord(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.KV.Update(ctx, func(b kv.Bucket) error {
		if err := b.Put(ctx, DataKey(rec.Metadata.ID), payload); err != nil {
			return err
		}
		index, err := s.readIndex(ctx, b)
		if err != nil {
			return err
		}
		return writeIndex(ctx, b, upsertSummary(index, rec.Summary()))
	})
}

func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	return s.KV.Update(ctx, func(b kv.Bucket) error {
		if _, err := b.Get(ctx, DataKey(id)); err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if err := b.Delete(ctx, DataKey(id)); err != nil {
			return err
		}
		index, err := s.readIndex(ctx, b)
		if err != nil {
			return err
		}
		kept := index[:0]
		for _, entry := range index {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		return writeIndex(ctx, b, kept)
	})
}

// ImportRecords writes a batch in one transaction, replacing records with the same id.
func (s *Store) ImportRecords(ctx context.Context, recs []Record) error {
	return s.KV.Update(ctx, func(b kv.Bucket) error {
		index, err := s.readIndex(ctx, b)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			payload, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put(ctx, DataKey(rec.Metadata.ID), payload); err != nil {
				return err
			}
			index = upsertSummary(index, rec.Summary())
		}
		return writeIndex(ctx, b, index)
	})
}

func getRecord(ctx context.Context, b kv.Bucket, id string) (Record, error) {
	raw, err := b.Get(ctx, DataKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrRecordCorrupt, id, err)
	}
	return Normalize(rec), nil
}

// readIndex falls back to rebuilding from the record keys when the index is unreadable.
func (s *Store) readIndex(ctx context.Context, b kv.Bucket) ([]Summary, error) {
	raw, err := b.Get(ctx, IndexKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, err
	}
	var index []Summary
	if err := json.Unmarshal(raw, &index); err != nil {
		s.Logger.Warn("summary index unreadable, rebuilding", "key", IndexKey, "err", err)
		return s.rebuildIndex(ctx, b)
	}
	sortSummaries(index)
	return index, nil
}

func (s *Store) rebuildIndex(ctx context.Context, b kv.Bucket) ([]Summary, error) {
	keys, err := b.Keys(ctx, DataKeyPrefix)
	if err != nil {
		return nil, err
	}
	index := make([]Summary, 0, len(keys))
	for _, key := range keys {
		rec, err := getRecord(ctx, b, key[len(DataKeyPrefix):])
		if err != nil {
			s.Logger.Warn("skipping unreadable record during index rebuild", "key", key, "err", err)
			continue
		}
		index = append(index, rec.Summary())
	}
	sortSummaries(index)
	return index, nil
}

func writeIndex(ctx context.Context, b kv.Bucket, index []Summary) error {
	sortSummaries(index)
	payload, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return b.Put(ctx, IndexKey, payload)
}

func upsertSummary(index []Summary, entry Summary) []Summary {
	for idx := range index {
		if index[idx].ID == entry.ID {
			index[idx] = entry
			return index
		}
	}
	return append(index, entry)
}

func sortSummaries(index []Summary) {
	sort.SliceStable(index, func(i, j int) bool { return index[i].UpdatedAt > index[j].UpdatedAt })
}

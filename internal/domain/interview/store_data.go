package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"qbhouse/internal/platform/kv"
)

type Store struct {
	KV *kv.Store
}

func NewStore(store *kv.Store) *Store {
	return &Store{KV: store}
}

func (s *Store) List(ctx context.Context) ([]Record, error) {
	return readAll(ctx, s.KV.Bucket())
}

// Upsert replaces a record with the same id in place, otherwise puts it first.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	return s.KV.Update(ctx, func(b kv.Bucket) error {
		all, err := readAll(ctx, b)
		if err != nil {
			return err
		}
		return writeAll(ctx, b, upsert(all, rec))
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.KV.Update(ctx, func(b kv.Bucket) error {
		all, err := readAll(ctx, b)
		if err != nil {
			return err
		}
		kept := make([]Record, 0, len(all))
		for _, rec := range all {
			if rec.ID != id {
				kept = append(kept, rec)
			}
		}
		if len(kept) == len(all) {
			return ErrInterviewNotFound
		}
		return writeAll(ctx, b, kept)
	})
}

func (s *Store) Merge(ctx context.Context, recs []Record) error {
	return s.KV.Update(ctx, func(b kv.Bucket) error {
		all, err := readAll(ctx, b)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			all = upsert(all, rec)
		}
		return writeAll(ctx, b, all)
	})
}

func upsert(all []Record, rec Record) []Record {
	for idx := range all {
		if all[idx].ID == rec.ID {
			all[idx] = rec
			return all
		}
	}
	return append([]Record{rec}, all...)
}

func readAll(ctx context.Context, b kv.Bucket) ([]Record, error) {
	raw, err := b.Get(ctx, StoreKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw []byte) ([]Record, error) {
	var all []Record
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterviewCorrupt, err)
	}
	if all == nil {
		all = []Record{}
	}
	return all, nil
}

func writeAll(ctx context.Context, b kv.Bucket, all []Record) error {
	payload, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return b.Put(ctx, StoreKey, payload)
}

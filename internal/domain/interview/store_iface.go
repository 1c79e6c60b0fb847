package interview

import "context"

type StoreAPI interface {
	List(ctx context.Context) ([]Record, error)
	Upsert(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
	Merge(ctx context.Context, recs []Record) error
}

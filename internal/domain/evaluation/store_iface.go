package evaluation

import "context"

type StoreAPI interface {
	ListSummaries(ctx context.Context) ([]Summary, error)
	GetRecord(ctx context.Context, id string) (Record, error)
	SaveRecord(ctx context.Context, rec Record) error
	DeleteRecord(ctx context.Context, id string) error
	ImportRecords(ctx context.Context, recs []Record) error
}

// Package store persists price and news records. Both backends expose the
// same append-only contract: collectors insert, the digest reads the most
// recent slice, nothing is ever updated or deleted here.
package store

import (
	"context"

	"cryptodigest/internal/domain"
)

type Store interface {
	InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error
	InsertNewsRecords(ctx context.Context, records []domain.NewsRecord) error
	LatestPriceRecords(ctx context.Context, limit int) ([]domain.PriceRecord, error)
	LatestNewsRecords(ctx context.Context, limit int) ([]domain.NewsRecord, error)
}

package db

import (
	"context"

	"github.com/opst/orcaobra/pkg/domain"
)

type CatalogInterface interface {
	// Search finds items whose code or description contains query, ignoring
	// case. An empty query lists items by code.
	Search(ctx context.Context, query string, limit int) ([]domain.CatalogItem, error)

	// Match finds items whose description contains any of keywords, most
	// matched first.
	Match(ctx context.Context, keywords []string, limit int) ([]domain.CatalogItem, error)

	// Upsert creates or replaces items by code.
	Upsert(ctx context.Context, items []domain.CatalogItem) error

	// Delete removes an item. Returns ErrMissing when not found.
	Delete(ctx context.Context, code string) error
}

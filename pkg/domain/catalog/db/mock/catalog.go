package mocks

import (
	"context"
	"testing"

	"github.com/opst/orcaobra/pkg/domain"
	kdb "github.com/opst/orcaobra/pkg/domain/catalog/db"
	dbmock "github.com/opst/orcaobra/pkg/domain/internal/db/mock"
)

type CatalogInterface struct {
	t    *testing.T
	Impl struct {
		Search func(ctx context.Context, query string, limit int) ([]domain.CatalogItem, error)
		Match  func(ctx context.Context, keywords []string, limit int) ([]domain.CatalogItem, error)
		Upsert func(ctx context.Context, items []domain.CatalogItem) error
		Delete func(ctx context.Context, code string) error
	}
	Calls struct {
		Search dbmock.CallLog[struct {
			Query string
			Limit int
		}]
		Match dbmock.CallLog[struct {
			Keywords []string
			Limit    int
		}]
		Upsert dbmock.CallLog[[]domain.CatalogItem]
		Delete dbmock.CallLog[string]
	}
}

func NewCatalogInterface(t *testing.T) *CatalogInterface {
	return &CatalogInterface{t: t}
}

var _ kdb.CatalogInterface = &CatalogInterface{}

func (m *CatalogInterface) Search(ctx context.Context, query string, limit int) ([]domain.CatalogItem, error) {
	m.t.Helper()
	m.Calls.Search = append(m.Calls.Search, struct {
		Query string
		Limit int
	}{query, limit})
	if m.Impl.Search == nil {
		m.t.Fatal("CatalogInterface.Search: not implemented")
	}
	return m.Impl.Search(ctx, query, limit)
}

func (m *CatalogInterface) Match(ctx context.Context, keywords []string, limit int) ([]domain.CatalogItem, error) {
	m.t.Helper()
	m.Calls.Match = append(m.Calls.Match, struct {
		Keywords []string
		Limit    int
	}{keywords, limit})
	if m.Impl.Match == nil {
		m.t.Fatal("CatalogInterface.Match: not implemented")
	}
	return m.Impl.Match(ctx, keywords, limit)
}

func (m *CatalogInterface) Upsert(ctx context.Context, items []domain.CatalogItem) error {
	m.t.Helper()
	m.Calls.Upsert = append(m.Calls.Upsert, items)
	if m.Impl.Upsert == nil {
		m.t.Fatal("CatalogInterface.Upsert: not implemented")
	}
	return m.Impl.Upsert(ctx, items)
}

func (m *CatalogInterface) Delete(ctx context.Context, code string) error {
	m.t.Helper()
	m.Calls.Delete = append(m.Calls.Delete, code)
	if m.Impl.Delete == nil {
		m.t.Fatal("CatalogInterface.Delete: not implemented")
	}
	return m.Impl.Delete(ctx, code)
}

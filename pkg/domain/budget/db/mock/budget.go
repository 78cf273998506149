package mocks

import (
	"context"
	"testing"

	"github.com/opst/orcaobra/pkg/domain"
	kdb "github.com/opst/orcaobra/pkg/domain/budget/db"
	dbmock "github.com/opst/orcaobra/pkg/domain/internal/db/mock"
)

type BudgetInterface struct {
	t    *testing.T
	Impl struct {
		Create    func(context.Context, domain.Budget) (*domain.Budget, error)
		Get       func(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error)
		List      func(ctx context.Context, ownerID string, status *domain.BudgetStatus) ([]domain.Budget, error)
		Update    func(context.Context, domain.Budget) (*domain.Budget, error)
		SetStatus func(ctx context.Context, ownerID, budgetID string, status domain.BudgetStatus) (*domain.Budget, error)
		Delete    func(ctx context.Context, ownerID, budgetID string) error
	}
	Calls struct {
		Create dbmock.CallLog[domain.Budget]
		Get    dbmock.CallLog[struct{ OwnerID, BudgetID string }]
		List   dbmock.CallLog[struct {
			OwnerID string
			Status  *domain.BudgetStatus
		}]
		Update    dbmock.CallLog[domain.Budget]
		SetStatus dbmock.CallLog[struct {
			OwnerID, BudgetID string
			Status            domain.BudgetStatus
		}]
		Delete dbmock.CallLog[struct{ OwnerID, BudgetID string }]
	}
}

func NewBudgetInterface(t *testing.T) *BudgetInterface {
	return &BudgetInterface{t: t}
}

var _ kdb.BudgetInterface = &BudgetInterface{}

func (m *BudgetInterface) Create(ctx context.Context, b domain.Budget) (*domain.Budget, error) {
	m.t.Helper()
	m.Calls.Create = append(m.Calls.Create, b)
	if m.Impl.Create == nil {
		m.t.Fatal("BudgetInterface.Create: not implemented")
	}
	return m.Impl.Create(ctx, b)
}

func (m *BudgetInterface) Get(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error) {
	m.t.Helper()
	m.Calls.Get = append(m.Calls.Get, struct{ OwnerID, BudgetID string }{ownerID, budgetID})
	if m.Impl.Get == nil {
		m.t.Fatal("BudgetInterface.Get: not implemented")
	}
	return m.Impl.Get(ctx, ownerID, budgetID)
}

func (m *BudgetInterface) List(ctx context.Context, ownerID string, status *domain.BudgetStatus) ([]domain.Budget, error) {
	m.t.Helper()
	m.Calls.List = append(m.Calls.List, struct {
		OwnerID string
		Status  *domain.BudgetStatus
	}{ownerID, status})
	if m.Impl.List == nil {
		m.t.Fatal("BudgetInterface.List: not implemented")
	}
	return m.Impl.List(ctx, ownerID, status)
}

func (m *BudgetInterface) Update(ctx context.Context, b domain.Budget) (*domain.Budget, error) {
	m.t.Helper()
	m.Calls.Update = append(m.Calls.Update, b)
	if m.Impl.Update == nil {
		m.t.Fatal("BudgetInterface.Update: not implemented")
	}
	return m.Impl.Update(ctx, b)
}

func (m *BudgetInterface) SetStatus(ctx context.Context, ownerID, budgetID string, status domain.BudgetStatus) (*domain.Budget, error) {
	m.t.Helper()
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		OwnerID, BudgetID string
		Status            domain.BudgetStatus
	}{ownerID, budgetID, status})
	if m.Impl.SetStatus == nil {
		m.t.Fatal("BudgetInterface.SetStatus: not implemented")
	}
	return m.Impl.SetStatus(ctx, ownerID, budgetID, status)
}

func (m *BudgetInterface) Delete(ctx context.Context, ownerID, budgetID string) error {
	m.t.Helper()
	m.Calls.Delete = append(m.Calls.Delete, struct{ OwnerID, BudgetID string }{ownerID, budgetID})
	if m.Impl.Delete == nil {
		m.t.Fatal("BudgetInterface.Delete: not implemented")
	}
	return m.Impl.Delete(ctx, ownerID, budgetID)
}

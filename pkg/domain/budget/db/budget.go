package db

import (
	"context"

	"github.com/opst/orcaobra/pkg/domain"
)

// BudgetInterface persists budgets. Every method is scoped to an owner:
// a budget of someone else is reported as missing.
type BudgetInterface interface {
	// Create stores a new budget with its items.
	//
	// ID, item IDs and timestamps are assigned. Items are normalized by
	// domain.NormalizeItems.
	Create(ctx context.Context, b domain.Budget) (*domain.Budget, error)

	// Get returns the budget with its items.
	//
	// Returns ErrMissing when not found.
	Get(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error)

	// List returns budgets of the owner, newest first, with their items.
	//
	// When status is not nil, only budgets in the status are listed.
	List(ctx context.Context, ownerID string, status *domain.BudgetStatus) ([]domain.Budget, error)

	// Update replaces the header and items of a budget.
	//
	// Returns ErrMissing when not found.
	Update(ctx context.Context, b domain.Budget) (*domain.Budget, error)

	// SetStatus changes the status of a budget.
	//
	// Returns ErrMissing when not found.
	SetStatus(ctx context.Context, ownerID, budgetID string, status domain.BudgetStatus) (*domain.Budget, error)

	// Delete removes a budget and its items.
	//
	// Returns ErrMissing when not found.
	Delete(ctx context.Context, ownerID, budgetID string) error
}

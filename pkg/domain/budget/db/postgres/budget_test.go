package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	testutilctx "github.com/opst/orcaobra/internal/testutils/context"
	"github.com/opst/orcaobra/internal/testutils/pgtest"
	"github.com/opst/orcaobra/pkg/domain"
	kpgaccount "github.com/opst/orcaobra/pkg/domain/account/db/postgres"
	kpgbudget "github.com/opst/orcaobra/pkg/domain/budget/db/postgres"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
	"github.com/opst/orcaobra/pkg/utils/try"
)

func TestBudget(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	pool := pgtest.Pool(ctx, t)

	owner := uuid.NewString()
	stranger := uuid.NewString()
	accounts := kpgaccount.New(pool)
	try.To(accounts.Ensure(ctx, owner, "owner@example.com")).OrFatal(t)
	try.To(accounts.Ensure(ctx, stranger, "stranger@example.com")).OrFatal(t)

	testee := kpgbudget.New(pool)

	created := try.To(testee.Create(ctx, domain.Budget{
		OwnerID: owner,
		BudgetHeader: domain.BudgetHeader{
			Title: "Casa térrea", Standard: domain.StandardHigh, AreaM2: 70, BDIPercent: 25,
		},
		Source: domain.SourceAI,
		Items: []domain.LineItem{
			{Position: 9, Stage: "Fundação", Description: "Sapata", Unit: "m3", Quantity: 2.5, UnitPrice: 80000},
			{Position: 3, Description: "Limpeza", Unit: "m2", Quantity: 70, UnitPrice: 350},
		},
	})).OrFatal(t)

	t.Run("Create assigns ids and normalizes items", func(t *testing.T) {
		if created.ID == "" || created.Status != domain.BudgetDraft || created.Source != domain.SourceAI {
			t.Errorf("unexpected budget: %+v", created)
		}
		if len(created.Items) != 2 {
			t.Fatalf("items: %+v", created.Items)
		}
		if created.Items[0].Position != 1 || created.Items[0].Description != "Sapata" {
			t.Errorf("first item: %+v", created.Items[0])
		}
		if created.Items[1].Position != 2 || created.Items[1].Stage != domain.DefaultStage {
			t.Errorf("second item: %+v", created.Items[1])
		}
		if got := created.Summary().Total; got != (200000+24500)*125/100 {
			t.Errorf("total: %d", got)
		}
	})

	t.Run("Get is owner scoped", func(t *testing.T) {
		if _, err := testee.Get(ctx, stranger, created.ID); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
		if _, err := testee.Get(ctx, owner, "not-a-uuid"); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
		got := try.To(testee.Get(ctx, owner, created.ID)).OrFatal(t)
		if got.Title != "Casa térrea" || len(got.Items) != 2 {
			t.Errorf("unexpected budget: %+v", got)
		}
	})

	t.Run("Update replaces items", func(t *testing.T) {
		b := *created
		b.Title = "Casa sobrado"
		b.Items = []domain.LineItem{{Stage: "Cobertura", Description: "Telha", Unit: "m2", Quantity: 80, UnitPrice: 4500}}
		got := try.To(testee.Update(ctx, b)).OrFatal(t)
		if got.Title != "Casa sobrado" || len(got.Items) != 1 || got.Items[0].Description != "Telha" {
			t.Errorf("unexpected budget: %+v", got)
		}

		b.OwnerID = stranger
		if _, err := testee.Update(ctx, b); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
	})

	t.Run("SetStatus and List by status", func(t *testing.T) {
		other := try.To(testee.Create(ctx, domain.Budget{
			OwnerID: owner, BudgetHeader: domain.BudgetHeader{Title: "Muro"},
		})).OrFatal(t)
		try.To(testee.SetStatus(ctx, owner, created.ID, domain.BudgetFinal)).OrFatal(t)

		all := try.To(testee.List(ctx, owner, nil)).OrFatal(t)
		if len(all) != 2 || all[0].ID != other.ID {
			t.Errorf("list should be newest first: %+v", all)
		}
		final := domain.BudgetFinal
		finals := try.To(testee.List(ctx, owner, &final)).OrFatal(t)
		if len(finals) != 1 || finals[0].ID != created.ID || len(finals[0].Items) != 1 {
			t.Errorf("unexpected finals: %+v", finals)
		}
		if none := try.To(testee.List(ctx, stranger, nil)).OrFatal(t); len(none) != 0 {
			t.Errorf("stranger sees budgets: %+v", none)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := testee.Delete(ctx, stranger, created.ID); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
		if err := testee.Delete(ctx, owner, created.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Get(ctx, owner, created.ID); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
	})
}

package postgres_test

import (
	"context"
	"errors"
	"testing"

	testutilctx "github.com/opst/orcaobra/internal/testutils/context"
	"github.com/opst/orcaobra/internal/testutils/pgtest"
	"github.com/opst/orcaobra/pkg/domain"
	kpgcatalog "github.com/opst/orcaobra/pkg/domain/catalog/db/postgres"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
	"github.com/opst/orcaobra/pkg/utils/try"
)

func codes(items []domain.CatalogItem) []string {
	ret := make([]string, len(items))
	for i, it := range items {
		ret[i] = it.Code
	}
	return ret
}

func TestCatalog(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	testee := kpgcatalog.New(pgtest.Pool(ctx, t))

	if err := testee.Upsert(ctx, []domain.CatalogItem{
		{Code: "C-001", Description: "Concreto usinado fck 25 MPa", Unit: "m3", UnitPrice: 52000, Stage: "Fundação"},
		{Code: "A-010", Description: "Alvenaria de bloco cerâmico", Unit: "m2", UnitPrice: 6500, Stage: "Alvenaria"},
		{Code: "P-100", Description: "Pintura látex acrílica", Unit: "m2", UnitPrice: 1800, Stage: "Acabamento"},
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("Search ignores case and accents", func(t *testing.T) {
		got := try.To(testee.Search(ctx, "CERAMICO", 10)).OrFatal(t)
		if c := codes(got); len(c) != 1 || c[0] != "A-010" {
			t.Errorf("unexpected: %v", c)
		}
		all := try.To(testee.Search(ctx, "", 2)).OrFatal(t)
		if c := codes(all); len(c) != 2 || c[0] != "A-010" || c[1] != "C-001" {
			t.Errorf("unexpected: %v", c)
		}
	})

	t.Run("Match orders by matched keywords", func(t *testing.T) {
		got := try.To(testee.Match(ctx, []string{"fundacao", "concreto", "pintura"}, 10)).OrFatal(t)
		if c := codes(got); len(c) != 2 || c[0] != "C-001" || c[1] != "P-100" {
			t.Errorf("unexpected: %v", c)
		}
	})

	t.Run("Upsert replaces by code", func(t *testing.T) {
		if err := testee.Upsert(ctx, []domain.CatalogItem{
			{Code: "P-100", Description: "Pintura epóxi", Unit: "m2", UnitPrice: 4200, Stage: "Acabamento"},
		}); err != nil {
			t.Fatal(err)
		}
		got := try.To(testee.Search(ctx, "p-100", 10)).OrFatal(t)
		if len(got) != 1 || got[0].UnitPrice != 4200 {
			t.Errorf("unexpected: %+v", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := testee.Delete(ctx, "C-001"); err != nil {
			t.Fatal(err)
		}
		if err := testee.Delete(ctx, "C-001"); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
	})
}

package postgres

import (
	"context"
	"strings"
	"time"

	kpool "github.com/opst/orcaobra/pkg/conn/db/postgres/pool"
	"github.com/opst/orcaobra/pkg/conn/db/postgres/scanner"
	"github.com/opst/orcaobra/pkg/domain"
	kdb "github.com/opst/orcaobra/pkg/domain/catalog/db"
	pgerrors "github.com/opst/orcaobra/pkg/domain/errors/dberrors/postgres"
	xe "github.com/opst/orcaobra/pkg/errors"
)

type pgCatalog struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.CatalogInterface {
	return &pgCatalog{pool: pool}
}

type catalogRow struct {
	Code        string
	Description string
	Unit        string
	UnitPrice   int64
	Stage       string
	UpdatedAt   time.Time
}

func (r catalogRow) toDomain() domain.CatalogItem {
	return domain.CatalogItem(r)
}

const catalogColumns = `"code", "description", "unit", "unit_price", "stage", "updated_at"`

// likePattern escapes s for LIKE and surrounds it with %.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func (c *pgCatalog) Search(ctx context.Context, query string, limit int) ([]domain.CatalogItem, error) {
	rows, err := scanner.New[catalogRow]().QueryAll(
		ctx, c.pool,
		`
		select `+catalogColumns+` from "catalog_item"
		where "search_text" like $1
		order by "code"
		limit $2
		`,
		likePattern(domain.Fold(strings.TrimSpace(query))), limit,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ret := make([]domain.CatalogItem, len(rows))
	for i, r := range rows {
		ret[i] = r.toDomain()
	}
	return ret, nil
}

func (c *pgCatalog) Match(ctx context.Context, keywords []string, limit int) ([]domain.CatalogItem, error) {
	if len(keywords) == 0 {
		return []domain.CatalogItem{}, nil
	}
	patterns := make([]string, len(keywords))
	for i, k := range keywords {
		patterns[i] = likePattern(domain.Fold(k))
	}

	rows, err := scanner.New[catalogRow]().QueryAll(
		ctx, c.pool,
		`
		with "scored" as (
			select
				`+catalogColumns+`,
				(
					select count(*) from unnest($1::text[]) as "p"("pattern")
					where "search_text" like "p"."pattern"
				) as "score"
			from "catalog_item"
		)
		select `+catalogColumns+` from "scored"
		where 0 < "score"
		order by "score" desc, "code"
		limit $2
		`,
		patterns, limit,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ret := make([]domain.CatalogItem, len(rows))
	for i, r := range rows {
		ret[i] = r.toDomain()
	}
	return ret, nil
}

func (c *pgCatalog) Upsert(ctx context.Context, items []domain.CatalogItem) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`
			insert into "catalog_item" (
				"code", "description", "unit", "unit_price", "stage", "search_text"
			)
			values ($1, $2, $3, $4, $5, $6)
			on conflict ("code") do update set
				"description" = excluded."description",
				"unit" = excluded."unit",
				"unit_price" = excluded."unit_price",
				"stage" = excluded."stage",
				"search_text" = excluded."search_text",
				"updated_at" = now()
			`,
			it.Code, it.Description, it.Unit, it.UnitPrice, it.Stage,
			domain.Fold(strings.Join([]string{it.Code, it.Description, it.Stage}, " ")),
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return xe.Wrap(tx.Commit(ctx))
}

func (c *pgCatalog) Delete(ctx context.Context, code string) error {
	tag, err := c.pool.Exec(ctx, `delete from "catalog_item" where "code" = $1`, code)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "catalog_item", Identity: "code=" + code}
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/orcaobra/pkg/conn/db/postgres/pool"
	"github.com/opst/orcaobra/pkg/conn/db/postgres/scanner"
	"github.com/opst/orcaobra/pkg/domain"
	kdb "github.com/opst/orcaobra/pkg/domain/budget/db"
	pgerrors "github.com/opst/orcaobra/pkg/domain/errors/dberrors/postgres"
	xe "github.com/opst/orcaobra/pkg/errors"
)

type pgBudget struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.BudgetInterface {
	return &pgBudget{pool: pool}
}

type budgetRow struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Title       string    `db:"title"`
	Client      string    `db:"client"`
	Location    string    `db:"location"`
	Description string    `db:"description"`
	ProjectType string    `db:"project_type"`
	Standard    string    `db:"standard"`
	AreaM2      float64   `db:"area_m2"`
	BDIPercent  float64   `db:"bdi_percent"`
	Status      string    `db:"status"`
	Source      string    `db:"source"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r budgetRow) toDomain(items []domain.LineItem) domain.Budget {
	if items == nil {
		items = []domain.LineItem{}
	}
	return domain.Budget{
		ID:      r.ID,
		OwnerID: r.OwnerID,
		BudgetHeader: domain.BudgetHeader{
			Title:       r.Title,
			Client:      r.Client,
			Location:    r.Location,
			Description: r.Description,
			ProjectType: r.ProjectType,
			Standard:    domain.Standard(r.Standard),
			AreaM2:      r.AreaM2,
			BDIPercent:  r.BDIPercent,
		},
		Status:    domain.BudgetStatus(r.Status),
		Source:    domain.BudgetSource(r.Source),
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type itemRow struct {
	BudgetID    string  `db:"budget_id"`
	ID          string  `db:"id"`
	Position    int     `db:"position"`
	Stage       string  `db:"stage"`
	Code        string  `db:"code"`
	Description string  `db:"description"`
	Unit        string  `db:"unit"`
	Quantity    float64 `db:"quantity"`
	UnitPrice   int64   `db:"unit_price"`
}

func (r itemRow) toDomain() domain.LineItem {
	return domain.LineItem{
		ID:          r.ID,
		Position:    r.Position,
		Stage:       r.Stage,
		Code:        r.Code,
		Description: r.Description,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
}

const budgetColumns = `
	"id"::text as "id", "owner_id"::text as "owner_id",
	"title", "client", "location", "description", "project_type", "standard",
	"area_m2", "bdi_percent", "status", "source", "created_at", "updated_at"
`

func missing(budgetID string) error {
	return pgerrors.Missing{Table: "budget", Identity: "id=" + budgetID}
}

func (p *pgBudget) Create(ctx context.Context, b domain.Budget) (*domain.Budget, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	status := b.Status
	if status == "" {
		status = domain.BudgetDraft
	}
	source := b.Source
	if source == "" {
		source = domain.SourceManual
	}
	standard := b.Standard
	if standard == "" {
		standard = domain.StandardMedium
	}

	id := uuid.NewString()
	if _, err := tx.Exec(
		ctx,
		`
		insert into "budget" (
			"id", "owner_id", "title", "client", "location", "description",
			"project_type", "standard", "area_m2", "bdi_percent", "status", "source"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
		id, b.OwnerID, b.Title, b.Client, b.Location, b.Description,
		b.ProjectType, string(standard), b.AreaM2, b.BDIPercent, string(status), string(source),
	); err != nil {
		return nil, xe.Wrap(err)
	}
	if err := insertItems(ctx, tx, id, b.Items); err != nil {
		return nil, err
	}

	got, err := get(ctx, tx, b.OwnerID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return got, nil
}

func insertItems(ctx context.Context, tx kpool.Tx, budgetID string, items []domain.LineItem) error {
	for _, it := range domain.NormalizeItems(items) {
		if _, err := tx.Exec(
			ctx,
			`
			insert into "budget_item" (
				"id", "budget_id", "position", "stage", "code", "description",
				"unit", "quantity", "unit_price"
			)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
			uuid.NewString(), budgetID, it.Position, it.Stage, it.Code, it.Description,
			it.Unit, it.Quantity, it.UnitPrice,
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return nil
}

func (p *pgBudget) Get(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error) {
	return get(ctx, p.pool, ownerID, budgetID)
}

func get(ctx context.Context, q kpool.Queryer, ownerID, budgetID string) (*domain.Budget, error) {
	if _, err := uuid.Parse(budgetID); err != nil {
		return nil, missing(budgetID)
	}

	rows, err := scanner.New[budgetRow]().QueryAll(
		ctx, q,
		`select `+budgetColumns+` from "budget" where "id" = $1 and "owner_id" = $2`,
		budgetID, ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, missing(budgetID)
	}

	items, err := itemsOf(ctx, q, []string{budgetID})
	if err != nil {
		return nil, err
	}
	b := rows[0].toDomain(items[budgetID])
	return &b, nil
}

func itemsOf(ctx context.Context, q kpool.Queryer, budgetIDs []string) (map[string][]domain.LineItem, error) {
	rows, err := scanner.New[itemRow]().QueryAll(
		ctx, q,
		`
		select
			"budget_id"::text as "budget_id", "id"::text as "id", "position",
			"stage", "code", "description", "unit", "quantity", "unit_price"
		from "budget_item"
		where "budget_id" = any($1::text[]::uuid[])
		order by "budget_id", "position"
		`,
		budgetIDs,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	ret := map[string][]domain.LineItem{}
	for _, r := range rows {
		ret[r.BudgetID] = append(ret[r.BudgetID], r.toDomain())
	}
	return ret, nil
}

func (p *pgBudget) List(ctx context.Context, ownerID string, status *domain.BudgetStatus) ([]domain.Budget, error) {
	var st *string
	if status != nil {
		s := string(*status)
		st = &s
	}

	rows, err := scanner.New[budgetRow]().QueryAll(
		ctx, p.pool,
		`
		select `+budgetColumns+` from "budget"
		where "owner_id" = $1 and ($2::text is null or "status" = $2)
		order by "created_at" desc, "id"
		`,
		ownerID, st,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	items, err := itemsOf(ctx, p.pool, ids)
	if err != nil {
		return nil, err
	}

	ret := make([]domain.Budget, len(rows))
	for i, r := range rows {
		ret[i] = r.toDomain(items[r.ID])
	}
	return ret, nil
}

func (p *pgBudget) Update(ctx context.Context, b domain.Budget) (*domain.Budget, error) {
	if _, err := uuid.Parse(b.ID); err != nil {
		return nil, missing(b.ID)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var id string
	if err := tx.QueryRow(
		ctx,
		`
		update "budget" set
			"title" = $3, "client" = $4, "location" = $5, "description" = $6,
			"project_type" = $7, "standard" = $8, "area_m2" = $9, "bdi_percent" = $10,
			"updated_at" = now()
		where "id" = $1 and "owner_id" = $2
		returning "id"::text
		`,
		b.ID, b.OwnerID, b.Title, b.Client, b.Location, b.Description,
		b.ProjectType, string(b.Standard), b.AreaM2, b.BDIPercent,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, missing(b.ID)
		}
		return nil, xe.Wrap(err)
	}

	if _, err := tx.Exec(ctx, `delete from "budget_item" where "budget_id" = $1`, id); err != nil {
		return nil, xe.Wrap(err)
	}
	if err := insertItems(ctx, tx, id, b.Items); err != nil {
		return nil, err
	}

	got, err := get(ctx, tx, b.OwnerID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return got, nil
}

func (p *pgBudget) SetStatus(ctx context.Context, ownerID, budgetID string, status domain.BudgetStatus) (*domain.Budget, error) {
	if _, err := uuid.Parse(budgetID); err != nil {
		return nil, missing(budgetID)
	}
	tag, err := p.pool.Exec(
		ctx,
		`update "budget" set "status" = $3, "updated_at" = now() where "id" = $1 and "owner_id" = $2`,
		budgetID, ownerID, string(status),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, missing(budgetID)
	}
	return p.Get(ctx, ownerID, budgetID)
}

func (p *pgBudget) Delete(ctx context.Context, ownerID, budgetID string) error {
	if _, err := uuid.Parse(budgetID); err != nil {
		return missing(budgetID)
	}
	tag, err := p.pool.Exec(
		ctx, `delete from "budget" where "id" = $1 and "owner_id" = $2`, budgetID, ownerID,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return missing(budgetID)
	}
	return nil
}

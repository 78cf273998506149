package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/orcaobra/pkg/conn/db/postgres/pool"
	"github.com/opst/orcaobra/pkg/conn/db/postgres/scanner"
	"github.com/opst/orcaobra/pkg/domain"
	kdb "github.com/opst/orcaobra/pkg/domain/account/db"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
	pgerrors "github.com/opst/orcaobra/pkg/domain/errors/dberrors/postgres"
	xe "github.com/opst/orcaobra/pkg/errors"
)

type pgAccount struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.AccountInterface {
	return &pgAccount{pool: pool}
}

type profileRow struct {
	UserID           string    `db:"user_id"`
	Email            string    `db:"email"`
	Plan             string    `db:"plan"`
	StripeCustomerID *string   `db:"stripe_customer_id"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r profileRow) toDomain() domain.Profile {
	p := domain.Profile{
		UserID:    r.UserID,
		Email:     r.Email,
		Plan:      domain.Plan(r.Plan),
		CreatedAt: r.CreatedAt,
	}
	if r.StripeCustomerID != nil {
		p.StripeCustomerID = *r.StripeCustomerID
	}
	return p
}

const profileColumns = `
	"user_id"::text as "user_id", "email", "plan", "stripe_customer_id", "created_at"
`

func missingUser(userID string) error {
	return pgerrors.Missing{Table: "profile", Identity: "user_id=" + userID}
}

func (a *pgAccount) one(ctx context.Context, userID string, sql string, args ...any) (*domain.Profile, error) {
	rows, err := scanner.New[profileRow]().QueryAll(ctx, a.pool, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, missingUser(userID)
	}
	p := rows[0].toDomain()
	return &p, nil
}

func (a *pgAccount) Ensure(ctx context.Context, userID, email string) (*domain.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, missingUser(userID)
	}
	return a.one(
		ctx, userID,
		`
		insert into "profile" ("user_id", "email") values ($1, $2)
		on conflict ("user_id") do update set
			"email" = excluded."email",
			"updated_at" = case
				when "profile"."email" = excluded."email" then "profile"."updated_at"
				else now()
			end
		returning `+profileColumns,
		userID, email,
	)
}

func (a *pgAccount) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, missingUser(userID)
	}
	return a.one(
		ctx, userID,
		`select `+profileColumns+` from "profile" where "user_id" = $1`,
		userID,
	)
}

func (a *pgAccount) RecordUsage(ctx context.Context, userID string, kind domain.UsageKind) error {
	_, err := a.pool.Exec(
		ctx, `insert into "usage_event" ("user_id", "kind") values ($1, $2)`, userID, string(kind),
	)
	return xe.Wrap(err)
}

func (a *pgAccount) CountUsage(ctx context.Context, userID string, kind domain.UsageKind, since time.Time) (int, error) {
	var n int
	if err := a.pool.QueryRow(
		ctx,
		`
		select count(*) from "usage_event"
		where "user_id" = $1 and "kind" = $2 and $3 <= "created_at"
		`,
		userID, string(kind), since,
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}

func (a *pgAccount) ReserveUsage(
	ctx context.Context, userID string, kind domain.UsageKind, since time.Time, quota domain.Quota,
) (int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, missingUser(userID)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var plan string
	if err := tx.QueryRow(
		ctx,
		`select "plan" from "profile" where "user_id" = $1 for update`,
		userID,
	).Scan(&plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, missingUser(userID)
		}
		return 0, xe.Wrap(err)
	}

	var used int
	if err := tx.QueryRow(
		ctx,
		`
		select count(*) from "usage_event"
		where "user_id" = $1 and "kind" = $2 and $3 <= "created_at"
		`,
		userID, string(kind), since,
	).Scan(&used); err != nil {
		return 0, xe.Wrap(err)
	}
	if !quota.Allows(domain.Plan(plan), used) {
		return 0, xe.Wrap(domerr.ErrQuotaExceeded)
	}

	var id int64
	if err := tx.QueryRow(
		ctx,
		`insert into "usage_event" ("user_id", "kind") values ($1, $2) returning "id"`,
		userID, string(kind),
	).Scan(&id); err != nil {
		return 0, xe.Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, xe.Wrap(err)
	}
	return id, nil
}

func (a *pgAccount) ReleaseUsage(ctx context.Context, userID string, usageID int64) error {
	if _, err := uuid.Parse(userID); err != nil {
		return missingUser(userID)
	}
	tag, err := a.pool.Exec(
		ctx,
		`delete from "usage_event" where "id" = $1 and "user_id" = $2`,
		usageID, userID,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "usage_event", Identity: fmt.Sprintf("id=%d", usageID)}
	}
	return nil
}

func (a *pgAccount) SetPlan(ctx context.Context, userID string, plan domain.Plan) (*domain.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, missingUser(userID)
	}
	return a.one(
		ctx, userID,
		`
		update "profile" set "plan" = $2, "updated_at" = now()
		where "user_id" = $1
		returning `+profileColumns,
		userID, string(plan),
	)
}

func (a *pgAccount) Subscribe(ctx context.Context, userID, customerID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return missingUser(userID)
	}
	tag, err := a.pool.Exec(
		ctx,
		`
		update "profile" set "plan" = 'pro', "stripe_customer_id" = $2, "updated_at" = now()
		where "user_id" = $1
		`,
		userID, customerID,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return missingUser(userID)
	}
	return nil
}

func (a *pgAccount) Unsubscribe(ctx context.Context, customerID string) error {
	tag, err := a.pool.Exec(
		ctx,
		`
		update "profile" set "plan" = 'free', "updated_at" = now()
		where "stripe_customer_id" = $1
		`,
		customerID,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "profile", Identity: "stripe_customer_id=" + customerID}
	}
	return nil
}

type userDigestRow struct {
	profileRow
	Budgets      int `db:"budgets"`
	PhotoReports int `db:"photo_reports"`
}

func (a *pgAccount) Users(ctx context.Context) ([]domain.UserDigest, error) {
	rows, err := a.pool.Query(
		ctx,
		`
		select
			"p"."user_id"::text, "p"."email", "p"."plan", "p"."stripe_customer_id", "p"."created_at",
			(select count(*) from "budget" where "owner_id" = "p"."user_id") as "budgets",
			(select count(*) from "photo_report" where "owner_id" = "p"."user_id") as "photo_reports"
		from "profile" as "p"
		order by "p"."created_at" desc, "p"."user_id"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	ret := []domain.UserDigest{}
	for rows.Next() {
		var r userDigestRow
		if err := rows.Scan(
			&r.UserID, &r.Email, &r.Plan, &r.StripeCustomerID, &r.CreatedAt,
			&r.Budgets, &r.PhotoReports,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		ret = append(ret, domain.UserDigest{
			Profile:      r.toDomain(),
			Budgets:      r.Budgets,
			PhotoReports: r.PhotoReports,
		})
	}
	return ret, xe.Wrap(rows.Err())
}

func (a *pgAccount) Stats(ctx context.Context, since time.Time) (domain.Stats, error) {
	var s domain.Stats
	if err := a.pool.QueryRow(
		ctx,
		`
		select
			(select count(*) from "profile"),
			(select count(*) from "profile" where "plan" = 'pro'),
			(select count(*) from "budget"),
			(select count(*) from "photo_report"),
			(select count(*) from "usage_event" where "kind" = $1 and $2 <= "created_at")
		`,
		string(domain.UsageBudgetGeneration), since,
	).Scan(&s.Users, &s.ProUsers, &s.Budgets, &s.PhotoReports, &s.GenerationsThisMonth); err != nil {
		return domain.Stats{}, xe.Wrap(err)
	}
	return s, nil
}

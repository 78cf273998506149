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
	pgerrors "github.com/opst/orcaobra/pkg/domain/errors/dberrors/postgres"
	kdb "github.com/opst/orcaobra/pkg/domain/photoreport/db"
	xe "github.com/opst/orcaobra/pkg/errors"
)

type pgPhotoReport struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.PhotoReportInterface {
	return &pgPhotoReport{pool: pool}
}

type reportRow struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Title       string    `db:"title"`
	Location    string    `db:"location"`
	Responsible string    `db:"responsible"`
	Date        time.Time `db:"report_date"`
	Notes       string    `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r reportRow) toDomain(photos []domain.Photo) domain.PhotoReport {
	if photos == nil {
		photos = []domain.Photo{}
	}
	return domain.PhotoReport{
		ID:      r.ID,
		OwnerID: r.OwnerID,
		PhotoReportHeader: domain.PhotoReportHeader{
			Title:       r.Title,
			Location:    r.Location,
			Responsible: r.Responsible,
			Date:        r.Date,
			Notes:       r.Notes,
		},
		Photos:    photos,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type photoRow struct {
	ID          string    `db:"id"`
	ReportID    string    `db:"report_id"`
	Position    int       `db:"position"`
	ObjectKey   string    `db:"object_key"`
	ContentType string    `db:"content_type"`
	Size        int64     `db:"size"`
	Caption     string    `db:"caption"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r photoRow) toDomain() domain.Photo {
	return domain.Photo(r)
}

const reportColumns = `
	"id"::text as "id", "owner_id"::text as "owner_id", "title", "location",
	"responsible", "report_date", "notes", "created_at", "updated_at"
`

const photoColumns = `
	"photo"."id"::text as "id", "photo"."report_id"::text as "report_id",
	"photo"."position", "photo"."object_key", "photo"."content_type",
	"photo"."size", "photo"."caption", "photo"."created_at"
`

func missingReport(id string) error {
	return pgerrors.Missing{Table: "photo_report", Identity: "id=" + id}
}

func missingPhoto(id string) error {
	return pgerrors.Missing{Table: "photo", Identity: "id=" + id}
}

func valid(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func (p *pgPhotoReport) Create(ctx context.Context, r domain.PhotoReport) (*domain.PhotoReport, error) {
	id := uuid.NewString()
	if _, err := p.pool.Exec(
		ctx,
		`
		insert into "photo_report" (
			"id", "owner_id", "title", "location", "responsible", "report_date", "notes"
		)
		values ($1, $2, $3, $4, $5, $6, $7)
		`,
		id, r.OwnerID, r.Title, r.Location, r.Responsible, r.Date, r.Notes,
	); err != nil {
		return nil, xe.Wrap(err)
	}
	return p.Get(ctx, r.OwnerID, id)
}

func (p *pgPhotoReport) Get(ctx context.Context, ownerID, reportID string) (*domain.PhotoReport, error) {
	if !valid(reportID) {
		return nil, missingReport(reportID)
	}
	rows, err := scanner.New[reportRow]().QueryAll(
		ctx, p.pool,
		`select `+reportColumns+` from "photo_report" where "id" = $1 and "owner_id" = $2`,
		reportID, ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, missingReport(reportID)
	}
	photos, err := p.photosOf(ctx, []string{reportID})
	if err != nil {
		return nil, err
	}
	r := rows[0].toDomain(photos[reportID])
	return &r, nil
}

func (p *pgPhotoReport) photosOf(ctx context.Context, reportIDs []string) (map[string][]domain.Photo, error) {
	rows, err := scanner.New[photoRow]().QueryAll(
		ctx, p.pool,
		`
		select `+photoColumns+` from "photo"
		where "report_id" = any($1::text[]::uuid[])
		order by "report_id", "position"
		`,
		reportIDs,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ret := map[string][]domain.Photo{}
	for _, r := range rows {
		ret[r.ReportID] = append(ret[r.ReportID], r.toDomain())
	}
	return ret, nil
}

func (p *pgPhotoReport) List(ctx context.Context, ownerID string) ([]domain.PhotoReport, error) {
	rows, err := scanner.New[reportRow]().QueryAll(
		ctx, p.pool,
		`
		select `+reportColumns+` from "photo_report"
		where "owner_id" = $1
		order by "created_at" desc, "id"
		`,
		ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	photos, err := p.photosOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	ret := make([]domain.PhotoReport, len(rows))
	for i, r := range rows {
		ret[i] = r.toDomain(photos[r.ID])
	}
	return ret, nil
}

func (p *pgPhotoReport) Update(ctx context.Context, r domain.PhotoReport) (*domain.PhotoReport, error) {
	if !valid(r.ID) {
		return nil, missingReport(r.ID)
	}
	tag, err := p.pool.Exec(
		ctx,
		`
		update "photo_report" set
			"title" = $3, "location" = $4, "responsible" = $5, "report_date" = $6,
			"notes" = $7, "updated_at" = now()
		where "id" = $1 and "owner_id" = $2
		`,
		r.ID, r.OwnerID, r.Title, r.Location, r.Responsible, r.Date, r.Notes,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, missingReport(r.ID)
	}
	return p.Get(ctx, r.OwnerID, r.ID)
}

func (p *pgPhotoReport) Delete(ctx context.Context, ownerID, reportID string) ([]domain.Photo, error) {
	if !valid(reportID) {
		return nil, missingReport(reportID)
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	photos, err := scanner.New[photoRow]().QueryAll(
		ctx, tx,
		`
		select `+photoColumns+` from "photo"
		join "photo_report" on "photo_report"."id" = "photo"."report_id"
		where "photo_report"."id" = $1 and "photo_report"."owner_id" = $2
		order by "photo"."position"
		`,
		reportID, ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	tag, err := tx.Exec(
		ctx, `delete from "photo_report" where "id" = $1 and "owner_id" = $2`, reportID, ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, missingReport(reportID)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}

	ret := make([]domain.Photo, len(photos))
	for i, ph := range photos {
		ret[i] = ph.toDomain()
	}
	return ret, nil
}

func (p *pgPhotoReport) AddPhoto(ctx context.Context, ownerID string, ph domain.Photo) (*domain.Photo, error) {
	if !valid(ph.ReportID) {
		return nil, missingReport(ph.ReportID)
	}
	var row photoRow
	if err := p.pool.QueryRow(
		ctx,
		`
		with "report" as (
			select "id" from "photo_report"
			where "id" = $2 and "owner_id" = $7
			for update
		)
		insert into "photo" (
			"id", "report_id", "position", "object_key", "content_type", "size", "caption"
		)
		select
			$1, "report"."id",
			coalesce((select max("position") from "photo" where "report_id" = "report"."id"), 0) + 1,
			$3, $4, $5, $6
		from "report"
		returning "id"::text, "report_id"::text, "position", "object_key",
			"content_type", "size", "caption", "created_at"
		`,
		ph.ID, ph.ReportID, ph.ObjectKey, ph.ContentType, ph.Size, ph.Caption, ownerID,
	).Scan(
		&row.ID, &row.ReportID, &row.Position, &row.ObjectKey,
		&row.ContentType, &row.Size, &row.Caption, &row.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, missingReport(ph.ReportID)
		}
		return nil, xe.Wrap(pgerrors.AsViolation(err))
	}
	got := row.toDomain()
	return &got, nil
}

func (p *pgPhotoReport) GetPhoto(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error) {
	if !valid(reportID, photoID) {
		return nil, missingPhoto(photoID)
	}
	rows, err := scanner.New[photoRow]().QueryAll(
		ctx, p.pool,
		`
		select `+photoColumns+` from "photo"
		join "photo_report" on "photo_report"."id" = "photo"."report_id"
		where "photo"."id" = $1 and "photo_report"."id" = $2 and "photo_report"."owner_id" = $3
		`,
		photoID, reportID, ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, missingPhoto(photoID)
	}
	got := rows[0].toDomain()
	return &got, nil
}

func (p *pgPhotoReport) SetCaption(ctx context.Context, ownerID, reportID, photoID, caption string) (*domain.Photo, error) {
	if !valid(reportID, photoID) {
		return nil, missingPhoto(photoID)
	}
	tag, err := p.pool.Exec(
		ctx,
		`
		update "photo" set "caption" = $4
		from "photo_report"
		where "photo_report"."id" = "photo"."report_id"
			and "photo"."id" = $1 and "photo_report"."id" = $2 and "photo_report"."owner_id" = $3
		`,
		photoID, reportID, ownerID, caption,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, missingPhoto(photoID)
	}
	return p.GetPhoto(ctx, ownerID, reportID, photoID)
}

func (p *pgPhotoReport) DeletePhoto(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error) {
	if !valid(reportID, photoID) {
		return nil, missingPhoto(photoID)
	}
	rows, err := scanner.New[photoRow]().QueryAll(
		ctx, p.pool,
		`
		delete from "photo"
		using "photo_report"
		where "photo_report"."id" = "photo"."report_id"
			and "photo"."id" = $1 and "photo_report"."id" = $2 and "photo_report"."owner_id" = $3
		returning `+photoColumns,
		photoID, reportID, ownerID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, missingPhoto(photoID)
	}
	got := rows[0].toDomain()
	return &got, nil
}

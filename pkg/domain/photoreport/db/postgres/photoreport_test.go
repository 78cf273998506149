package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	testutilctx "github.com/opst/orcaobra/internal/testutils/context"
	"github.com/opst/orcaobra/internal/testutils/pgtest"
	"github.com/opst/orcaobra/pkg/domain"
	kpgaccount "github.com/opst/orcaobra/pkg/domain/account/db/postgres"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
	kpgphotoreport "github.com/opst/orcaobra/pkg/domain/photoreport/db/postgres"
	"github.com/opst/orcaobra/pkg/utils/try"
)

func TestPhotoReport(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	pool := pgtest.Pool(ctx, t)

	owner, stranger := uuid.NewString(), uuid.NewString()
	try.To(kpgaccount.New(pool).Ensure(ctx, owner, "o@example.com")).OrFatal(t)
	try.To(kpgaccount.New(pool).Ensure(ctx, stranger, "s@example.com")).OrFatal(t)

	testee := kpgphotoreport.New(pool)
	report := try.To(testee.Create(ctx, domain.PhotoReport{
		OwnerID: owner,
		PhotoReportHeader: domain.PhotoReportHeader{
			Title: "Vistoria", Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	})).OrFatal(t)

	addPhoto := func(t *testing.T, ownerID string) (*domain.Photo, error) {
		id := uuid.NewString()
		return testee.AddPhoto(ctx, ownerID, domain.Photo{
			ID:          id,
			ReportID:    report.ID,
			ObjectKey:   domain.PhotoObjectKey(report.ID, id, "jpg"),
			ContentType: "image/jpeg",
			Size:        1024,
		})
	}

	first := try.To(addPhoto(t, owner)).OrFatal(t)
	second := try.To(addPhoto(t, owner)).OrFatal(t)

	t.Run("photos are numbered in order", func(t *testing.T) {
		if first.Position != 1 || second.Position != 2 {
			t.Errorf("positions: %d, %d", first.Position, second.Position)
		}
		got := try.To(testee.Get(ctx, owner, report.ID)).OrFatal(t)
		if len(got.Photos) != 2 || got.Photos[0].ID != first.ID {
			t.Errorf("unexpected photos: %+v", got.Photos)
		}
		if !got.Date.Equal(report.Date) {
			t.Errorf("date: %s", got.Date)
		}
	})

	t.Run("strangers cannot touch the report", func(t *testing.T) {
		if _, err := addPhoto(t, stranger); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
		if _, err := testee.SetCaption(ctx, stranger, report.ID, first.ID, "x"); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
		if _, err := testee.Delete(ctx, stranger, report.ID); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("want ErrMissing, got %v", err)
		}
	})

	t.Run("caption and photo deletion", func(t *testing.T) {
		got := try.To(testee.SetCaption(ctx, owner, report.ID, first.ID, "Fachada")).OrFatal(t)
		if got.Caption != "Fachada" {
			t.Errorf("caption: %q", got.Caption)
		}
		deleted := try.To(testee.DeletePhoto(ctx, owner, report.ID, second.ID)).OrFatal(t)
		if deleted.ObjectKey != second.ObjectKey {
			t.Errorf("deleted: %+v", deleted)
		}
	})

	t.Run("Delete returns remaining photos", func(t *testing.T) {
		photos := try.To(testee.Delete(ctx, owner, report.ID)).OrFatal(t)
		if len(photos) != 1 || photos[0].ID != first.ID {
			t.Errorf("unexpected photos: %+v", photos)
		}
		if got := try.To(testee.List(ctx, owner)).OrFatal(t); len(got) != 0 {
			t.Errorf("report remains: %+v", got)
		}
	})
}

package mocks

import (
	"context"
	"testing"

	"github.com/opst/orcaobra/pkg/domain"
	dbmock "github.com/opst/orcaobra/pkg/domain/internal/db/mock"
	kdb "github.com/opst/orcaobra/pkg/domain/photoreport/db"
)

type PhotoRef struct {
	OwnerID, ReportID, PhotoID string
}

type PhotoReportInterface struct {
	t    *testing.T
	Impl struct {
		Create      func(context.Context, domain.PhotoReport) (*domain.PhotoReport, error)
		Get         func(ctx context.Context, ownerID, reportID string) (*domain.PhotoReport, error)
		List        func(ctx context.Context, ownerID string) ([]domain.PhotoReport, error)
		Update      func(context.Context, domain.PhotoReport) (*domain.PhotoReport, error)
		Delete      func(ctx context.Context, ownerID, reportID string) ([]domain.Photo, error)
		AddPhoto    func(ctx context.Context, ownerID string, p domain.Photo) (*domain.Photo, error)
		GetPhoto    func(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error)
		SetCaption  func(ctx context.Context, ownerID, reportID, photoID, caption string) (*domain.Photo, error)
		DeletePhoto func(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error)
	}
	Calls struct {
		Create   dbmock.CallLog[domain.PhotoReport]
		Get      dbmock.CallLog[struct{ OwnerID, ReportID string }]
		List     dbmock.CallLog[string]
		Update   dbmock.CallLog[domain.PhotoReport]
		Delete   dbmock.CallLog[struct{ OwnerID, ReportID string }]
		AddPhoto dbmock.CallLog[struct {
			OwnerID string
			Photo   domain.Photo
		}]
		GetPhoto   dbmock.CallLog[PhotoRef]
		SetCaption dbmock.CallLog[struct {
			PhotoRef
			Caption string
		}]
		DeletePhoto dbmock.CallLog[PhotoRef]
	}
}

func NewPhotoReportInterface(t *testing.T) *PhotoReportInterface {
	return &PhotoReportInterface{t: t}
}

var _ kdb.PhotoReportInterface = &PhotoReportInterface{}

func (m *PhotoReportInterface) notImplemented(name string) {
	m.t.Helper()
	m.t.Fatalf("PhotoReportInterface.%s: not implemented", name)
}

func (m *PhotoReportInterface) Create(ctx context.Context, r domain.PhotoReport) (*domain.PhotoReport, error) {
	m.t.Helper()
	m.Calls.Create = append(m.Calls.Create, r)
	if m.Impl.Create == nil {
		m.notImplemented("Create")
	}
	return m.Impl.Create(ctx, r)
}

func (m *PhotoReportInterface) Get(ctx context.Context, ownerID, reportID string) (*domain.PhotoReport, error) {
	m.t.Helper()
	m.Calls.Get = append(m.Calls.Get, struct{ OwnerID, ReportID string }{ownerID, reportID})
	if m.Impl.Get == nil {
		m.notImplemented("Get")
	}
	return m.Impl.Get(ctx, ownerID, reportID)
}

func (m *PhotoReportInterface) List(ctx context.Context, ownerID string) ([]domain.PhotoReport, error) {
	m.t.Helper()
	m.Calls.List = append(m.Calls.List, ownerID)
	if m.Impl.List == nil {
		m.notImplemented("List")
	}
	return m.Impl.List(ctx, ownerID)
}

func (m *PhotoReportInterface) Update(ctx context.Context, r domain.PhotoReport) (*domain.PhotoReport, error) {
	m.t.Helper()
	m.Calls.Update = append(m.Calls.Update, r)
	if m.Impl.Update == nil {
		m.notImplemented("Update")
	}
	return m.Impl.Update(ctx, r)
}

func (m *PhotoReportInterface) Delete(ctx context.Context, ownerID, reportID string) ([]domain.Photo, error) {
	m.t.Helper()
	m.Calls.Delete = append(m.Calls.Delete, struct{ OwnerID, ReportID string }{ownerID, reportID})
	if m.Impl.Delete == nil {
		m.notImplemented("Delete")
	}
	return m.Impl.Delete(ctx, ownerID, reportID)
}

func (m *PhotoReportInterface) AddPhoto(ctx context.Context, ownerID string, p domain.Photo) (*domain.Photo, error) {
	m.t.Helper()
	m.Calls.AddPhoto = append(m.Calls.AddPhoto, struct {
		OwnerID string
		Photo   domain.Photo
	}{ownerID, p})
	if m.Impl.AddPhoto == nil {
		m.notImplemented("AddPhoto")
	}
	return m.Impl.AddPhoto(ctx, ownerID, p)
}

func (m *PhotoReportInterface) GetPhoto(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error) {
	m.t.Helper()
	m.Calls.GetPhoto = append(m.Calls.GetPhoto, PhotoRef{ownerID, reportID, photoID})
	if m.Impl.GetPhoto == nil {
		m.notImplemented("GetPhoto")
	}
	return m.Impl.GetPhoto(ctx, ownerID, reportID, photoID)
}

func (m *PhotoReportInterface) SetCaption(ctx context.Context, ownerID, reportID, photoID, caption string) (*domain.Photo, error) {
	m.t.Helper()
	m.Calls.SetCaption = append(m.Calls.SetCaption, struct {
		PhotoRef
		Caption string
	}{PhotoRef{ownerID, reportID, photoID}, caption})
	if m.Impl.SetCaption == nil {
		m.notImplemented("SetCaption")
	}
	return m.Impl.SetCaption(ctx, ownerID, reportID, photoID, caption)
}

func (m *PhotoReportInterface) DeletePhoto(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error) {
	m.t.Helper()
	m.Calls.DeletePhoto = append(m.Calls.DeletePhoto, PhotoRef{ownerID, reportID, photoID})
	if m.Impl.DeletePhoto == nil {
		m.notImplemented("DeletePhoto")
	}
	return m.Impl.DeletePhoto(ctx, ownerID, reportID, photoID)
}

package db

import (
	"context"

	"github.com/opst/orcaobra/pkg/domain"
)

// PhotoReportInterface persists photo reports and the metadata of their
// photos. Image bytes are not stored here.
//
// Every method is scoped to an owner: a report of someone else is reported as missing.
type PhotoReportInterface interface {
	Create(ctx context.Context, r domain.PhotoReport) (*domain.PhotoReport, error)

	// Get returns the report with its photos ordered by position.
	Get(ctx context.Context, ownerID, reportID string) (*domain.PhotoReport, error)

	// List returns reports of the owner, newest first, with their photos.
	List(ctx context.Context, ownerID string) ([]domain.PhotoReport, error)

	// Update replaces the header of a report.
	Update(ctx context.Context, r domain.PhotoReport) (*domain.PhotoReport, error)

	// Delete removes a report and its photos.
	//
	// Returns the removed photos, so that the caller can drop their objects.
	Delete(ctx context.Context, ownerID, reportID string) ([]domain.Photo, error)

	// AddPhoto appends a photo to a report. ID must be set by the caller
	// (it is a part of ObjectKey). Position is assigned.
	AddPhoto(ctx context.Context, ownerID string, p domain.Photo) (*domain.Photo, error)

	GetPhoto(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error)

	SetCaption(ctx context.Context, ownerID, reportID, photoID, caption string) (*domain.Photo, error)

	// DeletePhoto removes a photo and returns it.
	DeletePhoto(ctx context.Context, ownerID, reportID, photoID string) (*domain.Photo, error)
}

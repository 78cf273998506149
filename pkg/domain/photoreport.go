package domain

import (
	"fmt"
	"strings"
	"time"

	domerr "github.com/opst/orcaobra/pkg/domain/errors"
)

type PhotoReportHeader struct {
	Title       string
	Location    string
	Responsible string
	Date        time.Time
	Notes       string
}

func (h PhotoReportHeader) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("%w: title is required", domerr.ErrInvalidReport)
	}
	if h.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domerr.ErrInvalidReport)
	}
	return nil
}

type PhotoReport struct {
	ID      string
	OwnerID string
	PhotoReportHeader

	Photos []Photo

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Photo struct {
	ID       string
	ReportID string
	Position int

	// where the image is in the object storage.
	ObjectKey   string
	ContentType string
	Size        int64
	Caption     string

	CreatedAt time.Time
}

// MaxPhotoSize is the largest photo accepted, in bytes.
const MaxPhotoSize = 10 << 20

// photo content types accepted, with their file extensions.
var photoTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// PhotoExtension returns the file extension for a photo content type.
// ok is false when photos of the type are not accepted.
func PhotoExtension(contentType string) (ext string, ok bool) {
	ext, ok = photoTypes[contentType]
	return ext, ok
}

// PhotoObjectKey is the object storage key of a photo.
func PhotoObjectKey(reportID, photoID, ext string) string {
	return fmt.Sprintf("photo-reports/%s/%s.%s", reportID, photoID, ext)
}

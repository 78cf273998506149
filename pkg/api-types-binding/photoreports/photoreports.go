package photoreports

import (
	"fmt"
	"strings"
	"time"

	apiphotoreports "github.com/opst/orcaobra/pkg/api/types/photoreports"
	"github.com/opst/orcaobra/pkg/domain"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
	"github.com/opst/orcaobra/pkg/utils"
)

func ComposePhoto(p domain.Photo) apiphotoreports.Photo {
	return apiphotoreports.Photo{
		ID:          p.ID,
		Position:    p.Position,
		ContentType: p.ContentType,
		Size:        p.Size,
		Caption:     p.Caption,
	}
}

func ComposeDetail(r domain.PhotoReport) apiphotoreports.Detail {
	return apiphotoreports.Detail{
		ID: r.ID,
		Header: apiphotoreports.Header{
			Title:       r.Title,
			Location:    r.Location,
			Responsible: r.Responsible,
			Date:        r.Date.Format(apiphotoreports.DateLayout),
			Notes:       r.Notes,
		},
		Photos:    utils.Map(r.Photos, ComposePhoto),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ParseHeader validates a report header in a request.
func ParseHeader(h apiphotoreports.Header) (domain.PhotoReportHeader, error) {
	date, err := time.Parse(apiphotoreports.DateLayout, strings.TrimSpace(h.Date))
	if err != nil {
		return domain.PhotoReportHeader{}, fmt.Errorf("%w: date should be YYYY-MM-DD: %q", domerr.ErrInvalidReport, h.Date)
	}
	ret := domain.PhotoReportHeader{
		Title:       strings.TrimSpace(h.Title),
		Location:    strings.TrimSpace(h.Location),
		Responsible: strings.TrimSpace(h.Responsible),
		Date:        date,
		Notes:       h.Notes,
	}
	if err := ret.Validate(); err != nil {
		return domain.PhotoReportHeader{}, err
	}
	return ret, nil
}

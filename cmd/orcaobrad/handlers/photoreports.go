package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	bindphotoreports "github.com/opst/orcaobra/pkg/api-types-binding/photoreports"
	apiphotoreports "github.com/opst/orcaobra/pkg/api/types/photoreports"
	"github.com/opst/orcaobra/pkg/blob"
	"github.com/opst/orcaobra/pkg/document"
	"github.com/opst/orcaobra/pkg/domain"
	accountdb "github.com/opst/orcaobra/pkg/domain/account/db"
	photoreportdb "github.com/opst/orcaobra/pkg/domain/photoreport/db"
	"github.com/opst/orcaobra/pkg/llm"
	"github.com/opst/orcaobra/pkg/utils"
)

// captionPrompt asks for a caption of a photo of a construction site.
const captionPrompt = `Você é um engenheiro civil elaborando um relatório fotográfico de obra.
Descreva a foto em uma ou duas frases objetivas, em português do Brasil:
o serviço ou a etapa da obra retratada, materiais visíveis e o estado de execução.
Não invente informações que não estejam visíveis. Responda apenas com a legenda.`

// PhotoReports is what photo report handlers depend on.
type PhotoReports struct {
	DB    photoreportdb.PhotoReportInterface
	Store blob.Store

	// lifetime of download URLs of photos
	URLTTL time.Duration
}

func (p PhotoReports) detail(ctx context.Context, r *domain.PhotoReport) (apiphotoreports.Detail, error) {
	urls, err := presign(ctx, p.Store, r.Photos, p.URLTTL)
	if err != nil {
		return apiphotoreports.Detail{}, err
	}
	d := bindphotoreports.ComposeDetail(*r)
	for i := range d.Photos {
		d.Photos[i].URL = urls[d.Photos[i].ID]
	}
	return d, nil
}

func parseReportRequest(c echo.Context) (domain.PhotoReportHeader, error) {
	req := new(apiphotoreports.Header)
	if err := bindJSON(c, req); err != nil {
		return domain.PhotoReportHeader{}, err
	}
	h, err := bindphotoreports.ParseHeader(*req)
	if err != nil {
		return domain.PhotoReportHeader{}, binderr.BadRequest(err.Error(), err)
	}
	return h, nil
}

func CreatePhotoReportHandler(p PhotoReports) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		h, err := parseReportRequest(c)
		if err != nil {
			return err
		}
		created, err := p.DB.Create(c.Request().Context(), domain.PhotoReport{
			OwnerID: u.ID(), PhotoReportHeader: h,
		})
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindphotoreports.ComposeDetail(*created))
	}
}

// ListPhotoReportsHandler lists reports of the user. Photos in the list have
// no URLs.
func ListPhotoReportsHandler(p PhotoReports) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		reports, err := p.DB.List(c.Request().Context(), u.ID())
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(reports, bindphotoreports.ComposeDetail))
	}
}

func GetPhotoReportHandler(p PhotoReports, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		r, err := p.DB.Get(ctx, u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}
		d, err := p.detail(ctx, r)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, d)
	}
}

func UpdatePhotoReportHandler(p PhotoReports, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		h, err := parseReportRequest(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		updated, err := p.DB.Update(ctx, domain.PhotoReport{
			ID: c.Param(param), OwnerID: u.ID(), PhotoReportHeader: h,
		})
		if err != nil {
			return binderr.FromDomain(err)
		}
		d, err := p.detail(ctx, updated)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, d)
	}
}

// DeletePhotoReportHandler removes a report with its photos.
//
// Objects which can not be removed are left in the storage, and logged.
func DeletePhotoReportHandler(p PhotoReports, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		photos, err := p.DB.Delete(ctx, u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}
		for _, ph := range photos {
			if err := p.Store.Delete(ctx, ph.ObjectKey); err != nil {
				c.Logger().Warnf("object %s is left: %s", ph.ObjectKey, err)
			}
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// UploadPhotoHandler adds a photo to a report from multipart field "photo".
// Field "caption" is optional.
//
// Only JPEG, PNG and WebP up to domain.MaxPhotoSize are accepted; the type is
// sniffed from the content, not taken from the request.
func UploadPhotoHandler(p PhotoReports, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()

		report, err := p.DB.Get(ctx, u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}

		fh, err := c.FormFile("photo")
		if err != nil {
			return binderr.BadRequest(`multipart field "photo" is required`, err)
		}
		if fh.Size > domain.MaxPhotoSize {
			return binderr.TooLarge(fmt.Sprintf("photos should be up to %d MiB", domain.MaxPhotoSize>>20))
		}
		f, err := fh.Open()
		if err != nil {
			return binderr.BadRequest("can not read the photo", err)
		}
		defer f.Close()
		content, err := io.ReadAll(io.LimitReader(f, domain.MaxPhotoSize+1))
		if err != nil {
			return binderr.BadRequest("can not read the photo", err)
		}
		if len(content) > domain.MaxPhotoSize {
			return binderr.TooLarge(fmt.Sprintf("photos should be up to %d MiB", domain.MaxPhotoSize>>20))
		}

		contentType := http.DetectContentType(content)
		ext, ok := domain.PhotoExtension(contentType)
		if !ok {
			return binderr.UnsupportedMediaType("photos should be JPEG, PNG or WebP")
		}

		photoID := uuid.NewString()
		key := domain.PhotoObjectKey(report.ID, photoID, ext)
		if err := p.Store.Put(ctx, key, bytes.NewReader(content), int64(len(content)), contentType); err != nil {
			return binderr.InternalServerError(err)
		}

		added, err := p.DB.AddPhoto(ctx, u.ID(), domain.Photo{
			ID:          photoID,
			ReportID:    report.ID,
			ObjectKey:   key,
			ContentType: contentType,
			Size:        int64(len(content)),
			Caption:     strings.TrimSpace(c.FormValue("caption")),
		})
		if err != nil {
			if err := p.Store.Delete(ctx, key); err != nil {
				c.Logger().Warnf("object %s is left: %s", key, err)
			}
			return binderr.FromDomain(err)
		}

		ret := bindphotoreports.ComposePhoto(*added)
		if url, err := p.Store.URL(ctx, key, p.URLTTL); err == nil {
			ret.URL = url
		}
		return c.JSON(http.StatusCreated, ret)
	}
}

// SetCaptionHandler replaces the caption of a photo.
func SetCaptionHandler(p PhotoReports, reportParam, photoParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		req := new(apiphotoreports.CaptionRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		photo, err := p.DB.SetCaption(
			c.Request().Context(), u.ID(), c.Param(reportParam), c.Param(photoParam),
			strings.TrimSpace(req.Caption),
		)
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindphotoreports.ComposePhoto(*photo))
	}
}

// DescribePhotoHandler captions a photo with AI and saves the caption.
//
// When describer is nil, it responds 503.
func DescribePhotoHandler(
	p PhotoReports,
	dbAccount accountdb.AccountInterface,
	describer llm.Describer,
	reportParam, photoParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		if describer == nil {
			return binderr.ServiceUnavailable("photo description is not configured.", nil)
		}
		ctx := c.Request().Context()

		photo, err := p.DB.GetPhoto(ctx, u.ID(), c.Param(reportParam), c.Param(photoParam))
		if err != nil {
			return binderr.FromDomain(err)
		}

		content, err := func() ([]byte, error) {
			r, err := p.Store.Get(ctx, photo.ObjectKey)
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return io.ReadAll(io.LimitReader(r, domain.MaxPhotoSize+1))
		}()
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				return binderr.Conflict("the image of the photo is lost", binderr.WithError(err))
			}
			return binderr.InternalServerError(err)
		}

		caption, err := describer.Describe(ctx, content, photo.ContentType, captionPrompt)
		if err != nil {
			return binderr.ServiceUnavailable("the assistant is not available now. retry later.", err)
		}

		updated, err := p.DB.SetCaption(ctx, u.ID(), photo.ReportID, photo.ID, strings.TrimSpace(caption))
		if err != nil {
			return binderr.FromDomain(err)
		}
		if err := dbAccount.RecordUsage(ctx, u.ID(), domain.UsagePhotoCaption); err != nil {
			c.Logger().Errorf("failed to record usage of %s: %s", u.ID(), err)
		}
		return c.JSON(http.StatusOK, bindphotoreports.ComposePhoto(*updated))
	}
}

func DeletePhotoHandler(p PhotoReports, reportParam, photoParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		photo, err := p.DB.DeletePhoto(ctx, u.ID(), c.Param(reportParam), c.Param(photoParam))
		if err != nil {
			return binderr.FromDomain(err)
		}
		if err := p.Store.Delete(ctx, photo.ObjectKey); err != nil {
			c.Logger().Warnf("object %s is left: %s", photo.ObjectKey, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// PhotoReportDocumentHandler responds the printable HTML document of a report.
func PhotoReportDocumentHandler(p PhotoReports, param string, rec Recorder) echo.HandlerFunc {
	rec = recorderOrNop(rec)
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		r, err := p.DB.Get(ctx, u.ID(), c.Param(param))
		if err != nil {
			return binderr.FromDomain(err)
		}
		urls, err := presign(ctx, p.Store, r.Photos, p.URLTTL)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		buf := new(bytes.Buffer)
		if err := document.PhotoReport(buf, r, urls); err != nil {
			return binderr.InternalServerError(err)
		}
		rec.DocumentRendered("photoreport")
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}

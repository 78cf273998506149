// Package handlers holds echo handlers of orcaobra API.
//
// Handlers are built by functions taking what they depend on. Every handler
// except the payment webhook expects auth.Middleware before it.
package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"time"

	"github.com/labstack/echo/v4"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	"github.com/opst/orcaobra/pkg/auth"
	"github.com/opst/orcaobra/pkg/blob"
	"github.com/opst/orcaobra/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Recorder counts what handlers have made.
type Recorder interface {
	BudgetGenerated()
	DocumentRendered(kind string)
}

type nopRecorder struct{}

func (nopRecorder) BudgetGenerated()        {}
func (nopRecorder) DocumentRendered(string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func currentUser(c echo.Context) (*auth.User, error) {
	u := auth.UserOf(c)
	if u == nil {
		return nil, binderr.Unauthorized("authentication is required", nil)
	}
	return u, nil
}

// bindJSON decodes the request body into v.
func bindJSON(c echo.Context, v any) error {
	req := c.Request()
	mediatype, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil || mediatype != echo.MIMEApplicationJSON {
		return binderr.BadRequest(
			"unexpected content type. it should be application/json", err,
		)
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return binderr.BadRequest("can not understand the requested json", err)
	}
	return nil
}

// presign resolves download URLs of photos concurrently.
//
// Keys of the returned map are photo IDs.
func presign(ctx context.Context, store blob.Store, photos []domain.Photo, ttl time.Duration) (map[string]string, error) {
	urls := make([]string, len(photos))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, p := range photos {
		eg.Go(func() error {
			u, err := store.URL(ctx, p.ObjectKey, ttl)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	ret := make(map[string]string, len(photos))
	for i, p := range photos {
		ret[p.ID] = urls[i]
	}
	return ret, nil
}

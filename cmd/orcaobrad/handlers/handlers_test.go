package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/opst/orcaobra/pkg/auth"
	"github.com/opst/orcaobra/pkg/domain"
)

func signIn(c echo.Context, plan domain.Plan) *auth.User {
	u := &auth.User{Profile: domain.Profile{UserID: "user-1", Email: "ana@example.com", Plan: plan}}
	auth.WithUser(c, u)
	return u
}

// statusOf is the status code which err makes echo respond.
func statusOf(t *testing.T, err error) int {
	t.Helper()
	var herr *echo.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error is not *echo.HTTPError: %v", err)
	}
	return herr.Code
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var ret T
	if err := json.Unmarshal(resp.Body.Bytes(), &ret); err != nil {
		t.Fatalf("response is not json: %s\n%s", err, resp.Body.String())
	}
	return ret
}

type countingRecorder struct {
	generated int
	documents []string
}

func (r *countingRecorder) BudgetGenerated() {
	r.generated++
}

func (r *countingRecorder) DocumentRendered(kind string) {
	r.documents = append(r.documents, kind)
}

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/opst/orcaobra/internal/testutils/http"
	"github.com/opst/orcaobra/pkg/auth"
	"github.com/opst/orcaobra/pkg/domain"
	accountmock "github.com/opst/orcaobra/pkg/domain/account/db/mock"
)

func TestMiddleware(t *testing.T) {
	token, err := auth.Sign(secret, claims("user-1", time.Now().Add(time.Hour), ""))
	if err != nil {
		t.Fatal(err)
	}

	type when struct {
		header string
		admins []string
		err    error
	}
	type then struct {
		code  int
		admin bool
	}
	for name, testcase := range map[string]struct {
		when when
		then then
	}{
		"valid token": {
			when: when{header: "Bearer " + token},
			then: then{code: http.StatusOK},
		},
		"admin": {
			when: when{header: "Bearer " + token, admins: []string{"ADMIN@example.com", " Maria@Example.com "}},
			then: then{code: http.StatusOK, admin: true},
		},
		"no token": {
			when: when{},
			then: then{code: http.StatusUnauthorized},
		},
		"invalid token": {
			when: when{header: "Bearer " + token + "x"},
			then: then{code: http.StatusUnauthorized},
		},
		"profile store fails": {
			when: when{header: "Bearer " + token, err: errors.New("fake")},
			then: then{code: http.StatusInternalServerError},
		},
	} {
		t.Run(name, func(t *testing.T) {
			accounts := accountmock.NewAccountInterface(t)
			accounts.Impl.Ensure = func(ctx context.Context, userID, email string) (*domain.Profile, error) {
				if testcase.when.err != nil {
					return nil, testcase.when.err
				}
				return &domain.Profile{UserID: userID, Email: email, Plan: domain.PlanFree}, nil
			}

			e := echo.New()
			opts := []httptestutil.RequestOption{}
			if testcase.when.header != "" {
				opts = append(opts, httptestutil.WithHeader("Authorization", testcase.when.header))
			}
			c, _ := httptestutil.Get(e, "/api/me", opts...)

			var got *auth.User
			handler := auth.Middleware(
				auth.NewVerifier(secret, ""), accounts, auth.NewAdmins(testcase.when.admins),
			)(func(c echo.Context) error {
				got = auth.UserOf(c)
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if testcase.then.code == http.StatusOK {
				if err != nil {
					t.Fatal(err)
				}
				if got == nil || got.ID() != "user-1" || got.Profile.Email != "maria@example.com" {
					t.Fatalf("user: %+v", got)
				}
				if got.Admin != testcase.then.admin {
					t.Errorf("admin: %v", got.Admin)
				}
				ensured := accounts.Calls.Ensure.Last()
				if ensured.UserID != "user-1" || ensured.Email != "maria@example.com" {
					t.Errorf("Ensure is called with %+v", ensured)
				}
				return
			}

			httperr := new(echo.HTTPError)
			if !errors.As(err, &httperr) {
				t.Fatalf("error is not HTTPError: %v", err)
			}
			if httperr.Code != testcase.then.code {
				t.Errorf("status code: %d", httperr.Code)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	for name, testcase := range map[string]struct {
		when *auth.User
		then int
	}{
		"admin":     {when: &auth.User{Admin: true}, then: http.StatusOK},
		"not admin": {when: &auth.User{}, then: http.StatusForbidden},
		"anonymous": {when: nil, then: http.StatusForbidden},
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			c, _ := httptestutil.Get(e, "/api/admin/stats")
			if testcase.when != nil {
				auth.WithUser(c, testcase.when)
			}
			err := auth.AdminOnly()(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)
			if testcase.then == http.StatusOK {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			httperr := new(echo.HTTPError)
			if !errors.As(err, &httperr) || httperr.Code != testcase.then {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

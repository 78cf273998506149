package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	"github.com/opst/orcaobra/pkg/domain"
	accountdb "github.com/opst/orcaobra/pkg/domain/account/db"
)

const userKey = "orcaobra/user"

// User is the authenticated user of a request.
type User struct {
	Profile domain.Profile
	Admin   bool
}

func (u *User) ID() string {
	return u.Profile.UserID
}

// Admins is a set of email addresses of administrators.
type Admins map[string]struct{}

func NewAdmins(emails []string) Admins {
	a := Admins{}
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			a[e] = struct{}{}
		}
	}
	return a
}

func (a Admins) Has(email string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Middleware authenticates requests by bearer tokens.
//
// The profile of the user is created at the first request.
// Requests without valid tokens are rejected with 401.
func Middleware(v *Verifier, accounts accountdb.AccountInterface, admins Admins) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return binderr.Unauthorized("bearer token is required", err)
			}
			claims, err := v.Verify(token)
			if err != nil {
				return binderr.Unauthorized("invalid token", err)
			}

			profile, err := accounts.Ensure(c.Request().Context(), claims.Subject, claims.Email)
			if err != nil {
				return binderr.FromDomain(err)
			}
			c.Set(userKey, &User{Profile: *profile, Admin: admins.Has(profile.Email)})
			return next(c)
		}
	}
}

// AdminOnly rejects requests of users who are not administrators with 403.
//
// It should be used after Middleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := UserOf(c)
			if u == nil || !u.Admin {
				return binderr.Forbidden("administrators only")
			}
			return next(c)
		}
	}
}

// UserOf returns the authenticated user of the request, or nil.
func UserOf(c echo.Context) *User {
	u, _ := c.Get(userKey).(*User)
	return u
}

// WithUser sets the user to the context, as Middleware does.
func WithUser(c echo.Context, u *User) {
	c.Set(userKey, u)
}

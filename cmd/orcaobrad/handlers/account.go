package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	bindaccount "github.com/opst/orcaobra/pkg/api-types-binding/account"
	binderr "github.com/opst/orcaobra/pkg/api-types-binding/errors"
	apiaccount "github.com/opst/orcaobra/pkg/api/types/account"
	"github.com/opst/orcaobra/pkg/billing"
	"github.com/opst/orcaobra/pkg/domain"
	accountdb "github.com/opst/orcaobra/pkg/domain/account/db"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
	"github.com/opst/orcaobra/pkg/utils"
)

// MeHandler responds the profile of the user with the usage of this month.
func MeHandler(dbAccount accountdb.AccountInterface, quota domain.Quota) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		since := domain.MonthStart(time.Now())
		used, err := dbAccount.CountUsage(c.Request().Context(), u.ID(), domain.UsageBudgetGeneration, since)
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apiaccount.Me{
			Profile: bindaccount.ComposeProfile(u.Profile),
			Admin:   u.Admin,
			Usage: apiaccount.Usage{
				Since:       since,
				Generations: used,
				Remaining:   quota.Remaining(u.Profile.Plan, used),
			},
		})
	}
}

// CheckoutHandler starts a subscription of the pro plan.
func CheckoutHandler(b billing.Billing) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		if u.Profile.Plan == domain.PlanPro {
			return binderr.Conflict("you are already on the pro plan")
		}
		url, err := b.Checkout(c.Request().Context(), u.ID(), u.Profile.Email)
		if err != nil {
			if errors.Is(err, billing.ErrNotConfigured) {
				return binderr.ServiceUnavailable("payments are not available.", err)
			}
			return binderr.ServiceUnavailable("the payment service is not available now. retry later.", err)
		}
		return c.JSON(http.StatusOK, apiaccount.CheckoutResponse{URL: url})
	}
}

// maxWebhookPayload is the largest webhook payload read, in bytes.
const maxWebhookPayload = 1 << 16

// WebhookHandler receives notifications of the payment service, and
// changes plans of users.
//
// This is not authenticated by tokens but by signatures.
func WebhookHandler(b billing.Billing, dbAccount accountdb.AccountInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookPayload))
		if err != nil {
			return binderr.BadRequest("can not read the payload", err)
		}
		ev, err := b.ParseWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, billing.ErrInvalidSignature) {
				return binderr.BadRequest("signature is not valid", err)
			}
			return binderr.BadRequest("can not understand the event", err)
		}

		ctx := c.Request().Context()
		switch ev.Kind {
		case billing.Subscribed:
			if ev.UserID == "" {
				c.Logger().Warnf("event %s has no user", ev.ID)
				break
			}
			if err := dbAccount.Subscribe(ctx, ev.UserID, ev.CustomerID); err != nil {
				if errors.Is(err, domerr.ErrMissing) {
					c.Logger().Warnf("event %s: user %s is not found", ev.ID, ev.UserID)
					break
				}
				return binderr.InternalServerError(err)
			}
			c.Logger().Infof("user %s subscribed (customer %s)", ev.UserID, ev.CustomerID)
		case billing.Unsubscribed:
			if err := dbAccount.Unsubscribe(ctx, ev.CustomerID); err != nil {
				if errors.Is(err, domerr.ErrMissing) {
					c.Logger().Warnf("event %s: customer %s is not found", ev.ID, ev.CustomerID)
					break
				}
				return binderr.InternalServerError(err)
			}
			c.Logger().Infof("customer %s unsubscribed", ev.CustomerID)
		}
		return c.NoContent(http.StatusOK)
	}
}

// AdminStatsHandler summarizes the service.
func AdminStatsHandler(dbAccount accountdb.AccountInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := dbAccount.Stats(c.Request().Context(), domain.MonthStart(time.Now()))
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindaccount.ComposeStats(stats))
	}
}

func AdminUsersHandler(dbAccount accountdb.AccountInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := dbAccount.Users(c.Request().Context())
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(users, bindaccount.ComposeUserDigest))
	}
}

// AdminSetPlanHandler changes the plan of a user.
func AdminSetPlanHandler(dbAccount accountdb.AccountInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiaccount.PlanRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		plan, err := domain.AsPlan(req.Plan)
		if err != nil {
			return binderr.BadRequest(`plan should be "free" or "pro"`, err)
		}
		p, err := dbAccount.SetPlan(c.Request().Context(), c.Param(param), plan)
		if err != nil {
			return binderr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindaccount.ComposeProfile(*p))
	}
}

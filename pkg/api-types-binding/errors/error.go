// Package errors turns failures into *echo.HTTPError with an ErrorMessage body.
package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/orcaobra/pkg/api/types/errors"
	domerr "github.com/opst/orcaobra/pkg/domain/errors"
)

type ErrorMessageOption func(in *apierr.ErrorMessage) *apierr.ErrorMessage

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *apierr.ErrorMessage) *apierr.ErrorMessage {
		if advice != "" {
			in.Advice = advice
		}
		return in
	}
}

func WithError(err error) ErrorMessageOption {
	return func(in *apierr.ErrorMessage) *apierr.ErrorMessage {
		if err != nil {
			in.Cause = err
		}
		return in
	}
}

func WithSee(see string) ErrorMessageOption {
	return func(in *apierr.ErrorMessage) *apierr.ErrorMessage {
		if see != "" {
			in.See = see
		}
		return in
	}
}

func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := apierr.ErrorMessage{Reason: reason}
	for _, opt := range opts {
		msg = *opt(&msg)
	}
	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusBadRequest, "bad request", WithAdvice(advice), WithError(err),
	)
}

func Unauthorized(message string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, message, WithError(err))
}

func PaymentRequired(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusPaymentRequired, "plan limit reached", WithAdvice(advice), WithError(err),
	)
}

func Forbidden(message string) *echo.HTTPError {
	return NewErrorMessage(http.StatusForbidden, message)
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, "not found")
}

func Conflict(message string, options ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, message, options...)
}

func UnsupportedMediaType(advice string) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnsupportedMediaType, "unsupported media type", WithAdvice(advice))
}

func TooLarge(advice string) *echo.HTTPError {
	return NewErrorMessage(http.StatusRequestEntityTooLarge, "request entity too large", WithAdvice(advice))
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusInternalServerError, "unexpected error", WithError(err))
}

func ServiceUnavailable(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusServiceUnavailable,
		"service unavailable temporarily",
		WithAdvice(advice),
		WithError(err),
	)
}

// FromDomain maps domain errors to responses. Unknown errors become 500.
func FromDomain(err error) *echo.HTTPError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domerr.ErrMissing):
		return NotFound()
	case errors.Is(err, domerr.ErrForbidden):
		return Forbidden("you are not allowed to do that")
	case errors.Is(err, domerr.ErrInvalidBudget), errors.Is(err, domerr.ErrInvalidReport):
		return BadRequest(err.Error(), err)
	case errors.Is(err, domerr.ErrQuotaExceeded):
		return PaymentRequired("upgrade to the pro plan to keep generating budgets this month.", err)
	case errors.Is(err, domerr.ErrConflict):
		return Conflict(err.Error(), WithError(err))
	}
	return InternalServerError(err)
}

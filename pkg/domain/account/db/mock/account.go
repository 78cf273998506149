package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/opst/orcaobra/pkg/domain"
	kdb "github.com/opst/orcaobra/pkg/domain/account/db"
	dbmock "github.com/opst/orcaobra/pkg/domain/internal/db/mock"
)

type AccountInterface struct {
	t    *testing.T
	Impl struct {
		Ensure       func(ctx context.Context, userID, email string) (*domain.Profile, error)
		Get          func(ctx context.Context, userID string) (*domain.Profile, error)
		RecordUsage  func(ctx context.Context, userID string, kind domain.UsageKind) error
		CountUsage   func(ctx context.Context, userID string, kind domain.UsageKind, since time.Time) (int, error)
		ReserveUsage func(ctx context.Context, userID string, kind domain.UsageKind, since time.Time, quota domain.Quota) (int64, error)
		ReleaseUsage func(ctx context.Context, userID string, usageID int64) error
		SetPlan      func(ctx context.Context, userID string, plan domain.Plan) (*domain.Profile, error)
		Subscribe    func(ctx context.Context, userID, customerID string) error
		Unsubscribe  func(ctx context.Context, customerID string) error
		Users        func(ctx context.Context) ([]domain.UserDigest, error)
		Stats        func(ctx context.Context, since time.Time) (domain.Stats, error)
	}
	Calls struct {
		Ensure      dbmock.CallLog[struct{ UserID, Email string }]
		Get         dbmock.CallLog[string]
		RecordUsage dbmock.CallLog[struct {
			UserID string
			Kind   domain.UsageKind
		}]
		CountUsage dbmock.CallLog[struct {
			UserID string
			Kind   domain.UsageKind
			Since  time.Time
		}]
		ReserveUsage dbmock.CallLog[struct {
			UserID string
			Kind   domain.UsageKind
			Since  time.Time
			Quota  domain.Quota
		}]
		ReleaseUsage dbmock.CallLog[struct {
			UserID  string
			UsageID int64
		}]
		SetPlan dbmock.CallLog[struct {
			UserID string
			Plan   domain.Plan
		}]
		Subscribe   dbmock.CallLog[struct{ UserID, CustomerID string }]
		Unsubscribe dbmock.CallLog[string]
		Users       dbmock.CallLog[struct{}]
		Stats       dbmock.CallLog[time.Time]
	}
}

func NewAccountInterface(t *testing.T) *AccountInterface {
	return &AccountInterface{t: t}
}

var _ kdb.AccountInterface = &AccountInterface{}

func (m *AccountInterface) notImplemented(name string) {
	m.t.Helper()
	m.t.Fatalf("AccountInterface.%s: not implemented", name)
}

func (m *AccountInterface) Ensure(ctx context.Context, userID, email string) (*domain.Profile, error) {
	m.t.Helper()
	m.Calls.Ensure = append(m.Calls.Ensure, struct{ UserID, Email string }{userID, email})
	if m.Impl.Ensure == nil {
		m.notImplemented("Ensure")
	}
	return m.Impl.Ensure(ctx, userID, email)
}

func (m *AccountInterface) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	m.t.Helper()
	m.Calls.Get = append(m.Calls.Get, userID)
	if m.Impl.Get == nil {
		m.notImplemented("Get")
	}
	return m.Impl.Get(ctx, userID)
}

func (m *AccountInterface) RecordUsage(ctx context.Context, userID string, kind domain.UsageKind) error {
	m.t.Helper()
	m.Calls.RecordUsage = append(m.Calls.RecordUsage, struct {
		UserID string
		Kind   domain.UsageKind
	}{userID, kind})
	if m.Impl.RecordUsage == nil {
		m.notImplemented("RecordUsage")
	}
	return m.Impl.RecordUsage(ctx, userID, kind)
}

func (m *AccountInterface) CountUsage(ctx context.Context, userID string, kind domain.UsageKind, since time.Time) (int, error) {
	m.t.Helper()
	m.Calls.CountUsage = append(m.Calls.CountUsage, struct {
		UserID string
		Kind   domain.UsageKind
		Since  time.Time
	}{userID, kind, since})
	if m.Impl.CountUsage == nil {
		m.notImplemented("CountUsage")
	}
	return m.Impl.CountUsage(ctx, userID, kind, since)
}

func (m *AccountInterface) ReserveUsage(
	ctx context.Context, userID string, kind domain.UsageKind, since time.Time, quota domain.Quota,
) (int64, error) {
	m.t.Helper()
	m.Calls.ReserveUsage = append(m.Calls.ReserveUsage, struct {
		UserID string
		Kind   domain.UsageKind
		Since  time.Time
		Quota  domain.Quota
	}{userID, kind, since, quota})
	if m.Impl.ReserveUsage == nil {
		m.notImplemented("ReserveUsage")
	}
	return m.Impl.ReserveUsage(ctx, userID, kind, since, quota)
}

func (m *AccountInterface) ReleaseUsage(ctx context.Context, userID string, usageID int64) error {
	m.t.Helper()
	m.Calls.ReleaseUsage = append(m.Calls.ReleaseUsage, struct {
		UserID  string
		UsageID int64
	}{userID, usageID})
	if m.Impl.ReleaseUsage == nil {
		m.notImplemented("ReleaseUsage")
	}
	return m.Impl.ReleaseUsage(ctx, userID, usageID)
}

func (m *AccountInterface) SetPlan(ctx context.Context, userID string, plan domain.Plan) (*domain.Profile, error) {
	m.t.Helper()
	m.Calls.SetPlan = append(m.Calls.SetPlan, struct {
		UserID string
		Plan   domain.Plan
	}{userID, plan})
	if m.Impl.SetPlan == nil {
		m.notImplemented("SetPlan")
	}
	return m.Impl.SetPlan(ctx, userID, plan)
}

func (m *AccountInterface) Subscribe(ctx context.Context, userID, customerID string) error {
	m.t.Helper()
	m.Calls.Subscribe = append(m.Calls.Subscribe, struct{ UserID, CustomerID string }{userID, customerID})
	if m.Impl.Subscribe == nil {
		m.notImplemented("Subscribe")
	}
	return m.Impl.Subscribe(ctx, userID, customerID)
}

func (m *AccountInterface) Unsubscribe(ctx context.Context, customerID string) error {
	m.t.Helper()
	m.Calls.Unsubscribe = append(m.Calls.Unsubscribe, customerID)
	if m.Impl.Unsubscribe == nil {
		m.notImplemented("Unsubscribe")
	}
	return m.Impl.Unsubscribe(ctx, customerID)
}

func (m *AccountInterface) Users(ctx context.Context) ([]domain.UserDigest, error) {
	m.t.Helper()
	m.Calls.Users = append(m.Calls.Users, struct{}{})
	if m.Impl.Users == nil {
		m.notImplemented("Users")
	}
	return m.Impl.Users(ctx)
}

func (m *AccountInterface) Stats(ctx context.Context, since time.Time) (domain.Stats, error) {
	m.t.Helper()
	m.Calls.Stats = append(m.Calls.Stats, since)
	if m.Impl.Stats == nil {
		m.notImplemented("Stats")
	}
	return m.Impl.Stats(ctx, since)
}

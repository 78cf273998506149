package domain

import (
	"errors"
	"fmt"
	"time"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

var ErrUnknownPlan = errors.New("unknown plan")

func AsPlan(s string) (Plan, error) {
	switch p := Plan(s); p {
	case PlanFree, PlanPro:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
}

type Profile struct {
	UserID           string
	Email            string
	Plan             Plan
	StripeCustomerID string
	CreatedAt        time.Time
}

// UsageKind names a metered action.
type UsageKind string

const (
	UsageBudgetGeneration UsageKind = "budget.generate"
	UsageItemSuggestion   UsageKind = "budget.suggest"
	UsagePhotoCaption     UsageKind = "photo.describe"
)

// Quota tells how many AI generations a plan can do per calendar month.
type Quota struct {
	// 0 or less means free users cannot generate.
	FreeBudgetsPerMonth int
}

// Allows tells whether a user of plan who already used `used` generations
// this month can generate one more. Pro is unlimited.
func (q Quota) Allows(plan Plan, used int) bool {
	if plan == PlanPro {
		return true
	}
	return used < q.FreeBudgetsPerMonth
}

// Remaining generations this month. -1 means unlimited.
func (q Quota) Remaining(plan Plan, used int) int {
	if plan == PlanPro {
		return -1
	}
	return max(q.FreeBudgetsPerMonth-used, 0)
}

// MonthStart is the first instant of the calendar month of t, in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// UserDigest is a profile with its activity, for admins.
type UserDigest struct {
	Profile
	Budgets      int
	PhotoReports int
}

// Stats is the overview of the service for admins.
type Stats struct {
	Users        int
	ProUsers     int
	Budgets      int
	PhotoReports int

	// AI budget generations since the start of this month.
	GenerationsThisMonth int
}

package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/opst/orcaobra/pkg/domain"
)

func TestQuota(t *testing.T) {
	q := domain.Quota{FreeBudgetsPerMonth: 3}

	for name, testcase := range map[string]struct {
		plan      domain.Plan
		used      int
		allows    bool
		remaining int
	}{
		"free, unused":    {plan: domain.PlanFree, used: 0, allows: true, remaining: 3},
		"free, last one":  {plan: domain.PlanFree, used: 2, allows: true, remaining: 1},
		"free, exhausted": {plan: domain.PlanFree, used: 3, allows: false, remaining: 0},
		"free, over":      {plan: domain.PlanFree, used: 5, allows: false, remaining: 0},
		"pro":             {plan: domain.PlanPro, used: 500, allows: true, remaining: -1},
	} {
		t.Run(name, func(t *testing.T) {
			if got := q.Allows(testcase.plan, testcase.used); got != testcase.allows {
				t.Errorf("Allows: got %v", got)
			}
			if got := q.Remaining(testcase.plan, testcase.used); got != testcase.remaining {
				t.Errorf("Remaining: got %d", got)
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	for name, testcase := range map[string]struct {
		when time.Time
		then time.Time
	}{
		"middle of month": {
			when: time.Date(2024, 5, 17, 13, 0, 0, 0, time.UTC),
			then: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		"local evening is next month in UTC": {
			when: time.Date(2024, 5, 31, 22, 0, 0, 0, brt),
			then: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := domain.MonthStart(testcase.when); !got.Equal(testcase.then) {
				t.Errorf("got %s, want %s", got, testcase.then)
			}
		})
	}
}

func TestAsPlan(t *testing.T) {
	if p, err := domain.AsPlan("pro"); err != nil || p != domain.PlanPro {
		t.Errorf("got (%s, %v)", p, err)
	}
	if _, err := domain.AsPlan("gold"); !errors.Is(err, domain.ErrUnknownPlan) {
		t.Errorf("want ErrUnknownPlan, got %v", err)
	}
}

func TestPhotoObjectKey(t *testing.T) {
	ext, ok := domain.PhotoExtension("image/webp")
	if !ok || ext != "webp" {
		t.Fatalf("got (%s, %v)", ext, ok)
	}
	if _, ok := domain.PhotoExtension("image/gif"); ok {
		t.Errorf("gif should not be accepted")
	}
	if got := domain.PhotoObjectKey("r1", "p1", ext); got != "photo-reports/r1/p1.webp" {
		t.Errorf("got %s", got)
	}
}

package account

import (
	apiaccount "github.com/opst/orcaobra/pkg/api/types/account"
	"github.com/opst/orcaobra/pkg/domain"
)

func ComposeProfile(p domain.Profile) apiaccount.Profile {
	return apiaccount.Profile{
		UserID:    p.UserID,
		Email:     p.Email,
		Plan:      string(p.Plan),
		CreatedAt: p.CreatedAt,
	}
}

func ComposeUserDigest(u domain.UserDigest) apiaccount.UserDigest {
	return apiaccount.UserDigest{
		Profile:      ComposeProfile(u.Profile),
		Budgets:      u.Budgets,
		PhotoReports: u.PhotoReports,
	}
}

func ComposeStats(s domain.Stats) apiaccount.Stats {
	return apiaccount.Stats(s)
}

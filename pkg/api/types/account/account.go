package account

import "time"

type Profile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
}

type Usage struct {
	Since       time.Time `json:"since"`
	Generations int       `json:"generations"`

	// -1 means unlimited.
	Remaining int `json:"remaining"`
}

type Me struct {
	Profile
	Admin bool  `json:"admin"`
	Usage Usage `json:"usage"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type UserDigest struct {
	Profile
	Budgets      int `json:"budgets"`
	PhotoReports int `json:"photoReports"`
}

type Stats struct {
	Users                int `json:"users"`
	ProUsers             int `json:"proUsers"`
	Budgets              int `json:"budgets"`
	PhotoReports         int `json:"photoReports"`
	GenerationsThisMonth int `json:"generationsThisMonth"`
}

type PlanRequest struct {
	Plan string `json:"plan"`
}

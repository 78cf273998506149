package budgets

import "time"

// Header describes the project of a budget.
type Header struct {
	Title       string  `json:"title"`
	Client      string  `json:"client,omitempty"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	ProjectType string  `json:"projectType,omitempty"`
	Standard    string  `json:"standard,omitempty"`
	AreaM2      float64 `json:"areaM2,omitempty"`
	BDIPercent  float64 `json:"bdiPercent"`
}

// Item is a line of a budget. Money is in cents of BRL.
type Item struct {
	ID          string  `json:"id,omitempty"`
	Position    int     `json:"position,omitempty"`
	Stage       string  `json:"stage"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unitPrice"`

	// response only.
	Total int64 `json:"total,omitempty"`
}

type StageTotal struct {
	Stage    string  `json:"stage"`
	Items    int     `json:"items"`
	Subtotal int64   `json:"subtotal"`
	Share    float64 `json:"share"`
}

type Summary struct {
	Stages     []StageTotal `json:"stages"`
	DirectCost int64        `json:"directCost"`
	BDI        int64        `json:"bdi"`
	Total      int64        `json:"total"`
}

type Detail struct {
	ID string `json:"id"`
	Header
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Items     []Item    `json:"items"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Digest is a budget in a list.
type Digest struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Client    string    `json:"client,omitempty"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Items     int       `json:"items"`
	Total     int64     `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Request is the body to create or replace a budget.
type Request struct {
	Header
	Items []Item `json:"items"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// GenerateRequest asks for a budget made by AI.
type GenerateRequest struct {
	Header
}

// SuggestRequest asks for more items of a stage of a budget.
type SuggestRequest struct {
	Stage string `json:"stage"`

	// free text to steer the suggestion.
	Hint string `json:"hint,omitempty"`
}

type SuggestResponse struct {
	Items []Item `json:"items"`
}

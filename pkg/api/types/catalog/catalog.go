package catalog

import "time"

type Item struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`

	// cents of BRL.
	UnitPrice int64  `json:"unitPrice"`
	Stage     string `json:"stage,omitempty"`

	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

package photoreports

import "time"

// DateLayout is the layout of Header.Date.
const DateLayout = "2006-01-02"

type Header struct {
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	Responsible string `json:"responsible,omitempty"`

	// YYYY-MM-DD
	Date  string `json:"date"`
	Notes string `json:"notes,omitempty"`
}

type Photo struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Caption     string `json:"caption"`

	// a short-lived link to the image.
	URL string `json:"url,omitempty"`
}

type Detail struct {
	ID string `json:"id"`
	Header
	Photos    []Photo   `json:"photos"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CaptionRequest struct {
	Caption string `json:"caption"`
}

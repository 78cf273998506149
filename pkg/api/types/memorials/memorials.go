package memorials

type Point struct {
	Label    string  `json:"label"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

type Segment struct {
	From string `json:"from"`
	To   string `json:"to"`

	// degrees from grid north, clockwise.
	Azimuth float64 `json:"azimuth"`

	// DDD°MM'SS"
	AzimuthDMS string `json:"azimuthDms"`

	// meters
	Distance float64 `json:"distance"`
	Neighbor string  `json:"neighbor,omitempty"`
}

type Memorial struct {
	Name        string    `json:"name,omitempty"`
	Zone        int       `json:"zone"`
	Hemisphere  string    `json:"hemisphere"`
	Orientation string    `json:"orientation"`
	Points      []Point   `json:"points"`
	Segments    []Segment `json:"segments"`

	// square meters
	Area     float64 `json:"area"`
	Hectares float64 `json:"hectares"`

	// meters
	Perimeter float64 `json:"perimeter"`

	// memorial descritivo narrative.
	Text string `json:"text"`
}

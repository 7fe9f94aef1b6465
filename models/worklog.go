package models

// WorkLog is one historical record in the remote work-log store.
type WorkLog struct {
	Date         Value   `json:"Date"`
	AircraftType string  `json:"AircraftType"`
	Airport      string  `json:"Airport"`
	WorkType     string  `json:"WorkType"`
	Flights      float64 `json:"Flights"`
	ManHours     float64 `json:"ManHours"`
	FileName     string  `json:"FileName,omitempty"`
}

// AggregateRow is one group of work logs.
type AggregateRow struct {
	Label         string  `json:"label"`
	TotalFlights  float64 `json:"totalFlights"`
	TotalManHours float64 `json:"totalManHours"`
	RecordCount   int     `json:"recordCount"`
}

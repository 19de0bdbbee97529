package report

// SeriesPoint is one month of working hours for a user, shaped for a
// line-chart consumer: x is the short month label ("Jul"), y the hours
// rounded to two decimals.
type SeriesPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// UserSeries is one employee's monthly working-hours line.
type UserSeries struct {
	ID   string        `json:"id"`
	Data []SeriesPoint `json:"data"`
}

// Check-in histogram bucket labels. The late bucket is the catch-all for
// everything outside the three morning windows, early arrivals included.
const (
	BucketEarly   = "7 AM - 9 AM"
	BucketMorning = "9 AM - 11 AM"
	BucketMidday  = "11 AM - 1 PM"
	BucketLate    = "Late (1 PM+)"
)

type HistogramBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type CheckInDistributionResponse struct {
	Buckets []HistogramBucket `json:"buckets"`
	Total   int               `json:"total"`
}

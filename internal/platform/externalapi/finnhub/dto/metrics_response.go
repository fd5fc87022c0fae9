package dto

// MetricsResponse is the /stock/metric?metric=all response (subset).
type MetricsResponse struct {
	Metric MetricValues `json:"metric"`
}

// MetricValues carries the financial metrics used for display.
// Pointers distinguish "not reported" from zero.
type MetricValues struct {
	PENormalizedAnnual *float64 `json:"peNormalizedAnnual"`
}

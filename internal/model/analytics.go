/*
Package model
File: analytics.go
Description:
    AnalyticsEvent: one structured decision-point record.
*/
package model

type AnalyticsEvent struct {
	Timestamp float64        `json:"ts"`
	Category  string         `json:"category"`
	Name      string         `json:"name"`
	Success   bool           `json:"success"`
	Value     float64        `json:"value"`
	Player    string         `json:"player,omitempty"`
	Planet    string         `json:"planet,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

type AnalyticsCounters struct {
	TotalEvents     int            `json:"total_events"`
	EventsByCategory map[string]int `json:"events_by_category"`
	EventsByName    map[string]int `json:"events_by_name"`
	SuccessCount    int            `json:"success_count"`
	FailureCount    int            `json:"failure_count"`
}

func NewAnalyticsCounters() AnalyticsCounters {
	return AnalyticsCounters{
		EventsByCategory: map[string]int{},
		EventsByName:     map[string]int{},
	}
}

type AnalyticsSnapshot struct {
	UpdatedAt float64           `json:"updated_at"`
	Events    []AnalyticsEvent  `json:"events"`
	Counters  AnalyticsCounters `json:"counters"`
}

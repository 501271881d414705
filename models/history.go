package models

import (
	"encoding/json"
	"time"
)

// APIType distinguishes the two outbound call kinds kept in history.
type APIType string

const (
	APIContact  APIType = "contact"
	APIActivity APIType = "activity"
)

// CallRecord is one entry of the bounded call history: enough to show the
// call in a list and to restore the form that produced it.
type CallRecord struct {
	ID             int64           `json:"id"`
	CalledAt       time.Time       `json:"calledAt"`
	APIType        APIType         `json:"apiType"`
	Region         string          `json:"region"`
	Activity       string          `json:"activity"`
	ListID         string          `json:"listId,omitempty"`
	Attributes     json.RawMessage `json:"attributes,omitempty"`
	Identity       string          `json:"identity,omitempty"`
	ActivitySource string          `json:"activitySource,omitempty"`
	Activities     json.RawMessage `json:"activities,omitempty"`
	ResponseBody   string          `json:"responseBody"`
	StatusCode     int             `json:"statusCode"`
}

// DispatchEvent is the analytics row recorded in ClickHouse for every
// outbound call, successful or not.
type DispatchEvent struct {
	EventID      string    `json:"eventId"`
	APIType      APIType   `json:"apiType"`
	Region       string    `json:"region"`
	ActivityName string    `json:"activityName"`
	StatusCode   int       `json:"statusCode"`
	Success      bool      `json:"success"`
	DurationMs   int64     `json:"durationMs"`
	Timestamp    time.Time `json:"timestamp"`
}

package models

import "time"

// HistoryItem summarises a past submission returned by the server.
type HistoryItem struct {
	ID         int64     `json:"id"`
	ReportType string    `json:"report_type"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Ownership  string    `json:"ownership,omitempty"`
	Timestamp  string    `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}

package model

import "time"

// SearchRecord is one entry in the persisted search history.
type SearchRecord struct {
	CreatedAt    time.Time `json:"timestamp"`
	Prompt       string    `json:"prompt"`
	ID           int64     `json:"id"`
	ProductCount int       `json:"productCount"`
}

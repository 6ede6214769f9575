package models

import (
	"time"

	"github.com/lib/pq"
)

// SyncLog records the outcome of one catalog sync run for admin tooling.
type SyncLog struct {
	ID               int            `db:"id" json:"id"`
	CountriesWritten int            `db:"countries_written" json:"countriesWritten"`
	PlansWritten     int            `db:"plans_written" json:"plansWritten"`
	ErrorCount       int            `db:"error_count" json:"errorCount"`
	Errors           pq.StringArray `db:"errors" json:"errors,omitempty"`
	Status           string         `db:"status" json:"status"`
	Source           string         `db:"source" json:"source"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
}

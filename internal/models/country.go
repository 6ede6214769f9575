package models

import "time"

// Country is a sellable destination synced from the plan catalog provider.
// Rows are created and refreshed by the catalog sync; they are never deleted
// during a normal sync run.
type Country struct {
	Code     string     `db:"code" json:"code"`
	Name     string     `db:"name" json:"name"`
	FlagURL  *string    `db:"flag_url" json:"flagUrl,omitempty"`
	Visible  bool       `db:"visible" json:"visible"`
	SyncedAt *time.Time `db:"synced_at" json:"syncedAt,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

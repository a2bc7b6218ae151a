package models

import "time"

// LocationPing is one entry in an uplift order's location history. The history
// is an append-only log: one insert per ping, ordered by id.
type LocationPing struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UpliftOrderID uint64 `gorm:"not null;index" json:"uplift_order_id"`

	Longitude float64 `gorm:"not null" json:"longitude"`
	Latitude  float64 `gorm:"not null" json:"latitude"`

	RecordedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"recorded_at"`
}

func (LocationPing) TableName() string {
	return "location_pings"
}

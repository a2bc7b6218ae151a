package models

import (
	"time"

	"gorm.io/datatypes"
)

// RequestRevision is a full snapshot of a supply request taken at every write,
// inside the same transaction as the write itself. Reading them back in order
// replays the request's history.
type RequestRevision struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID uint64 `gorm:"not null;index" json:"request_id"`

	// TxID identifies the write that produced this revision.
	TxID     string         `gorm:"type:varchar(36);not null;uniqueIndex" json:"tx_id"`
	Snapshot datatypes.JSON `gorm:"type:jsonb;not null" json:"snapshot"`

	RecordedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"recorded_at"`
}

func (RequestRevision) TableName() string {
	return "request_revisions"
}

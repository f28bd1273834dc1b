package entity

import "time"

// MissionEvent is an append-only ledger row. The id is a snowflake so the
// insertion order is recoverable from the id alone.
type MissionEvent struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID      string `gorm:"index:idx_mission_events_user_mission"`
	MissionSlug string `gorm:"index:idx_mission_events_user_mission"`
	EventType   string
	Payload     Map
	PayloadHash string
}

package entity

import "time"

// MissionCompletion records one reward grant per user, mission and local day.
// The unique index is the only once-per-day guard; concurrent completions race
// on the insert and the loser gets a duplicate key error.
type MissionCompletion struct {
	Base

	UserID    string `gorm:"uniqueIndex:idx_completions_user_mission_day"`
	MissionID string `gorm:"uniqueIndex:idx_completions_user_mission_day"`
	Day       string `gorm:"uniqueIndex:idx_completions_user_mission_day"`

	ProofType     string
	ProofMeta     Map
	XPAwarded     int64
	TokensAwarded int64
	CompletedAt   time.Time
}

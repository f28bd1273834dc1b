package entity

import (
	"time"

	"github.com/connectus-app/backend/pkg/enum"
)

type MissionAttemptStatus string

var (
	MissionAttemptPending  = enum.New(MissionAttemptStatus("pending"))
	MissionAttemptApproved = enum.New(MissionAttemptStatus("approved"))
	MissionAttemptRejected = enum.New(MissionAttemptStatus("rejected"))
)

type MissionAttempt struct {
	Base

	EventID      int64        `gorm:"index"`
	Event        MissionEvent `gorm:"foreignKey:EventID"`
	UserID       string       `gorm:"index:idx_mission_attempts_user_mission"`
	MissionSlug  string       `gorm:"index:idx_mission_attempts_user_mission"`
	Status       MissionAttemptStatus
	Score        int
	Reason       string
	EvidenceHash string
	EvaluatedAt  time.Time
}

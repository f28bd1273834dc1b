package entity

type MissionEvidence struct {
	Base

	AttemptID    string         `gorm:"index"`
	Attempt      MissionAttempt `gorm:"foreignKey:AttemptID"`
	EvidenceType string
	EvidenceData Map
	EvidenceHash string
}

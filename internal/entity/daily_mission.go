package entity

type DailyMission struct {
	Base

	Code        string `gorm:"unique"`
	Title       string
	Description string
	XPReward    int64
	TokenReward int64
	IsActive    bool
}

package entity

type MissionRule struct {
	Base

	MissionSlug string `gorm:"unique"`
	RuleName    string
	RuleConfig  Map
	XPReward    int64
	TokenReward int64
	IsActive    bool
}

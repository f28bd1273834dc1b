package entity

type FeatureFlag struct {
	Base

	Name      string `gorm:"unique"`
	IsEnabled bool
}

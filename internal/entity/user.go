package entity

type User struct {
	Base

	Name         string `gorm:"unique"`
	Role         string
	XP           int64
	TokenBalance int64
}

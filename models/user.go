package models

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique" json:"username" validate:"required"`
	Password string `json:"-" validate:"required"`
	UserType string `gorm:"column:user_type" json:"user_type"`
	Age      int    `json:"age" gorm:"default:0"`
}

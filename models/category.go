package models

type Category struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"unique" json:"name" validate:"required"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"products"` // One-to-many relationship
}

package models

import "time"

type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"unique" json:"name" validate:"required"`
	Unit              string    `json:"unit" validate:"required"`
	RatePerUnit       float64   `gorm:"column:rate_per_unit" json:"rate_per_unit" validate:"required"`
	Quantity          int       `json:"quantity"`
	CategoryID        uint      `json:"category_id"` // Foreign key to Category
	ManufacturingDate time.Time `gorm:"column:manufacturing_date" json:"manufacturing_date"`
	ExpiryDate        time.Time `gorm:"column:expiry_date" json:"expiry_date"`
}

package models

// SalesRegister is the append-only ledger of completed purchase lines.
// Rows reference products by name only and are never updated or deleted.
type SalesRegister struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	ProductName       string `gorm:"column:product_name" json:"product_name"`
	QuantityPurchased int    `gorm:"column:quantity_purchased" json:"quantity_purchased"`
}

package models

import "time"

// Product carries only what checkout needs; catalog management lives in the
// storefront and is out of scope here.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"product_id"`
	Name      string    `gorm:"size:128" json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

type Size struct {
	ID   uint   `gorm:"primaryKey" json:"size_id"`
	Name string `gorm:"size:16" json:"name"`
}

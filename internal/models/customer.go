package models

import "time"

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"customer_id"`
	Name      string    `gorm:"size:64" json:"name"`
	Email     string    `gorm:"size:128;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	Role      string    `gorm:"size:16" json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

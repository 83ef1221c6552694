package models

import "time"

// Warehouse is a storage site identified by city and coordinates
type Warehouse struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	City      string    `gorm:"size:255;not null" json:"city"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

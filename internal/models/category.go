package models

import "time"

// Category groups subcategories
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubCategory belongs to exactly one Category
type SubCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	CategoryID  uint      `gorm:"not null;index" json:"category"`
	Category    Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the table name readable
func (SubCategory) TableName() string {
	return "subcategories"
}

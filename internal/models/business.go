package models

import (
	"time"

	"gorm.io/datatypes"
)

type BusinessService struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

type Business struct {
	ID          string `gorm:"primaryKey;size:120" json:"id"`
	Name        string `gorm:"size:150;not null" json:"name"`
	Location    string `gorm:"size:255" json:"location"`
	Category    string `gorm:"size:80" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	Email       string `gorm:"size:150;index" json:"email"`

	Services datatypes.JSONSlice[BusinessService] `json:"services"`
	IsCustom bool                                 `gorm:"default:false" json:"is_custom"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

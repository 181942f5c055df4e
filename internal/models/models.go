package models

import (
	"time"
)

type Product struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Price     float64   `gorm:"not null"                 json:"price"`
	Image     *string   `json:"image"`
	Available bool      `gorm:"not null;default:true"    json:"available"`
	CreatedAt time.Time `gorm:"index"                    json:"createdAt"`
}

type Account struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:admin"   json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

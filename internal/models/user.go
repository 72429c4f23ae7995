package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null"`
	Phone        string `gorm:"uniqueIndex;not null"`
	Role         string `gorm:"default:'staff'"`
	BranchCode   string `gorm:"index"`
	Status       string `gorm:"default:'active'"`
	TokenVersion int    `gorm:"default:1"`
}

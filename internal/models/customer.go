package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a depositor serviced by the intermediary.
type Customer struct {
	gorm.Model
	FullName      string `gorm:"not null"`
	Email         string `gorm:"index"`
	Phone         string `gorm:"uniqueIndex;not null"`
	PAN           string `gorm:"uniqueIndex;not null"`
	Gender        string
	DateOfBirth   *time.Time
	Address       string
	BranchCode    string `gorm:"index;not null"`
	SeniorCitizen bool   `gorm:"default:false"`
	Status        string `gorm:"default:'active'"`
}

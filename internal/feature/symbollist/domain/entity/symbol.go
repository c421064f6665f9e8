// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is one entry of the evaluation watchlist. Active symbols are
// preloaded by the ingest job and listed by the HTTP API.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Exchange  string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

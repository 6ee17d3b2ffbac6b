package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel timestamps are filled by gorm so the same schema migrates on
// PostgreSQL and SQLite.
type BaseModel struct {
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
}

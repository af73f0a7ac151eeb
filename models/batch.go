package models

import "gorm.io/gorm"

// BatchRecord is the persisted bookkeeping row for one processed upload
// batch. The BatchID is the key handed back to the caller for export.
type BatchRecord struct {
	gorm.Model
	BatchID       string `gorm:"type:varchar(36);uniqueIndex;not null"`
	FileCount     int    `gorm:"not null"`
	Orders        int    `gorm:"not null"`
	Registrations int    `gorm:"not null"`
	Deletions     int    `gorm:"not null"`
	TotalValue    float64
}

package gormstore

import "time"

// documentRow holds one JSON document of any collection.
type documentRow struct {
	Collection string    `gorm:"primaryKey;type:varchar(64)"`
	ID         string    `gorm:"primaryKey;type:varchar(128)"`
	Data       string    `gorm:"type:longtext;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (documentRow) TableName() string { return "documents" }

// DBChange is one entry of the change log the ChangeMonitor polls.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	Collection string    `gorm:"type:varchar(64);not null;index:idx_collection_action"`
	DocumentID string    `gorm:"type:varchar(128);not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_collection_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}

func (DBChange) TableName() string { return "document_changes" }

type kvRow struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)"`
	Value     string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (kvRow) TableName() string { return "local_storage" }

const (
	actionPut    = "PUT"
	actionDelete = "DELETE"
)

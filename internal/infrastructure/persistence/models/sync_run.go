package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipsync/backend/internal/domain/integration"
	"github.com/shipsync/backend/internal/domain/syncrun"
)

// SyncRunModel is the persistence model for the SyncRun entity.
type SyncRunModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Platform string    `gorm:"type:varchar(20);not null;index:idx_sync_log_platform,priority:1"`
	SyncType string    `gorm:"type:varchar(20);not null;index:idx_sync_log_platform,priority:2"`

	Status      string `gorm:"type:varchar(20);not null;index"`
	ItemsSynced int    `gorm:"not null;default:0"`
	ErrorText   string `gorm:"type:text"`

	StartedAt   time.Time `gorm:"not null;index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_log"
}

// ToDomain converts the persistence model to a domain SyncRun entity.
func (m *SyncRunModel) ToDomain() *syncrun.SyncRun {
	return &syncrun.SyncRun{
		ID:          m.ID,
		Platform:    integration.PlatformCode(m.Platform),
		SyncType:    syncrun.SyncType(m.SyncType),
		Status:      syncrun.RunStatus(m.Status),
		ItemsSynced: m.ItemsSynced,
		ErrorText:   m.ErrorText,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncRun entity.
func (m *SyncRunModel) FromDomain(r *syncrun.SyncRun) {
	m.ID = r.ID
	m.Platform = r.Platform.String()
	m.SyncType = r.SyncType.String()
	m.Status = r.Status.String()
	m.ItemsSynced = r.ItemsSynced
	m.ErrorText = r.ErrorText
	m.StartedAt = r.StartedAt
	m.CompletedAt = r.CompletedAt
}

// SyncRunModelFromDomain creates a new persistence model from a domain SyncRun entity.
func SyncRunModelFromDomain(r *syncrun.SyncRun) *SyncRunModel {
	m := &SyncRunModel{}
	m.FromDomain(r)
	return m
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLogEntry records one governance mutation (or proposal) against a club.
// Rows are append-only: created once per mutation, never updated or deleted.
type AuditLogEntry struct {
	ID           int64          `gorm:"type:bigserial;primaryKey"`
	UserID       string         `gorm:"type:text;not null"`
	ClubID       uint           `gorm:"not null;index"`
	Action       string         `gorm:"type:text;not null"`
	OriginalData datatypes.JSON `gorm:"type:jsonb"`
	NewData      datatypes.JSON `gorm:"type:jsonb"`
	ChangedAt    time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`

	Club Club `gorm:"foreignKey:ClubID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AuditLogEntry) TableName() string { return "audit_log" }

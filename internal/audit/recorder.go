package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

// Recorder appends audit entries. Entries are created exactly once per
// mutation attempt that reaches persistence and are never touched again.
type Recorder struct{}

// NewRecorder returns a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record serializes both snapshots and persists one audit row on the given
// handle. Callers pass their open transaction so the append commits or rolls
// back together with the primary mutation. ChangedAt is set by the server
// clock, never by the client.
func (Recorder) Record(ctx context.Context, tx *gorm.DB, userID string, clubID uint, action string, original, proposed any) (models.AuditLogEntry, error) {
	originalData, err := json.Marshal(original)
	if err != nil {
		return models.AuditLogEntry{}, fmt.Errorf("marshal original snapshot: %w", err)
	}
	newData, err := json.Marshal(proposed)
	if err != nil {
		return models.AuditLogEntry{}, fmt.Errorf("marshal new snapshot: %w", err)
	}

	entry := models.AuditLogEntry{
		UserID:       userID,
		ClubID:       clubID,
		Action:       action,
		OriginalData: datatypes.JSON(originalData),
		NewData:      datatypes.JSON(newData),
	}

	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.AuditLogEntry{}, fmt.Errorf("append audit entry: %w", err)
	}

	entriesRecorded.WithLabelValues(action).Inc()
	return entry, nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProgress is the persisted per-user record. Submissions and Progress
// are stored as whole JSON documents and always rewritten together; the row
// is the unit of overwrite (last writer wins, no isolation).
type UserProgress struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	Submissions datatypes.JSON `gorm:"type:jsonb;column:submissions" json:"submissions"`
	Progress    datatypes.JSON `gorm:"type:jsonb;column:progress" json:"progress"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

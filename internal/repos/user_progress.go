package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
)

// UserProgressRepo persists one whole record per user identifier. Get
// returns (nil, nil) when the user has never been seen, so callers can tell
// "does not exist yet" apart from "exists but empty".
type UserProgressRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgress, error)
	Save(ctx context.Context, tx *gorm.DB, record *types.UserProgress) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record types.UserProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save overwrites the full record. New records get their ID here so that
// the same code path works on Postgres and SQLite.
func (r *userProgressRepo) Save(ctx context.Context, tx *gorm.DB, record *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		return transaction.WithContext(ctx).Create(record).Error
	}
	return transaction.WithContext(ctx).Save(record).Error
}

package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	"github.com/markberon/sari-store-backend/pkg/types"
)

// Repository persists cart snapshots keyed by session id.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error)
	UpsertBySession(ctx context.Context, sessionID string, items types.CartItemSnapshots) (*models.CartRecord, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindBySession returns nil when no record exists; a missing cart is not an
// error at this layer.
func (r *repository) FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpsertBySession(ctx context.Context, sessionID string, items types.CartItemSnapshots) (*models.CartRecord, error) {
	record := models.CartRecord{
		SessionID: sessionID,
		Items:     items,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartRecord{}).Error
}

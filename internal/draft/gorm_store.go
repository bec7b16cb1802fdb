package draft

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftRecord is the durable draft archive row. One row per store key,
// last-write-wins, mirroring the single-slot-per-owner invariant of the
// original browser storage.
type DraftRecord struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (DraftRecord) TableName() string { return "draft_snapshots" }

// GormStore persists drafts in the relational database so recovery
// survives device loss.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, ErrStoreUnavailable
	}
	if err := db.AutoMigrate(&DraftRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record DraftRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(record.Value), true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	record := DraftRecord{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&DraftRecord{}, "key = ?", key).Error
}

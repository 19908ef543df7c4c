package policystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/groupwarden/groupwarden/policy"
)

// Database row for a group config. The policy fields are stored as a single
// JSON payload: the admin API reads and writes whole configs, never individual
// columns, and the engine only ever loads by group id.
type GroupConfigRow struct {
	GroupID   string `gorm:"primaryKey;column:group_id"`
	Payload   []byte `gorm:"column:payload"`
	UpdatedAt time.Time
}

func (GroupConfigRow) TableName() string {
	return "group_configs"
}

// PolicyStore backed by a gorm-supported database (sqlite, postgres, ...).
type GormPolicyStore struct {
	db *gorm.DB
}

var _ PolicyStore = (*GormPolicyStore)(nil)

func NewGormPolicyStore(db *gorm.DB) (*GormPolicyStore, error) {
	if err := db.AutoMigrate(&GroupConfigRow{}); err != nil {
		return nil, fmt.Errorf("migrating group config table: %w", err)
	}
	return &GormPolicyStore{db: db}, nil
}

func (s *GormPolicyStore) GetConfig(ctx context.Context, groupID string) (*policy.GroupConfig, error) {
	var row GroupConfigRow
	err := s.db.WithContext(ctx).First(&row, "group_id = ?", groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading group config: %w", err)
	}
	var cfg policy.GroupConfig
	if err := json.Unmarshal(row.Payload, &cfg); err != nil {
		return nil, fmt.Errorf("parsing stored group config: %w", err)
	}
	return &cfg, nil
}

func (s *GormPolicyStore) PutConfig(ctx context.Context, cfg *policy.GroupConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding group config: %w", err)
	}
	row := GroupConfigRow{GroupID: cfg.GroupID, Payload: payload}
	err = s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("saving group config: %w", err)
	}
	return nil
}

func (s *GormPolicyStore) DeleteConfig(ctx context.Context, groupID string) error {
	err := s.db.WithContext(ctx).Delete(&GroupConfigRow{}, "group_id = ?", groupID).Error
	if err != nil {
		return fmt.Errorf("deleting group config: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// SessionSnapshot is the persisted form of a checkout flow state.
type SessionSnapshot struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID   string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"session_id"`
	CurrentStep int       `gorm:"not null" json:"current_step"`
	StateJSON   string    `gorm:"type:jsonb;not null" json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewPostgresDB opens a Postgres connection and migrates the snapshot table.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&SessionSnapshot{}); err != nil {
		return nil, err
	}
	return db, nil
}

// GormSessionStore persists flow snapshots in Postgres, one row per session.
type GormSessionStore struct {
	db *gorm.DB
}

// NewGormSessionStore creates a Postgres-backed session store.
func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

// Persist upserts the snapshot row for the session.
func (s *GormSessionStore) Persist(ctx context.Context, sessionID string, state models.FlowState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	var existing SessionSnapshot
	err = s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		snapshot := SessionSnapshot{
			SessionID:   sessionID,
			CurrentStep: state.CurrentStep,
			StateJSON:   string(data),
			ExpiresAt:   state.Session.ExpiresAt,
		}
		return s.db.WithContext(ctx).Create(&snapshot).Error
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"current_step": state.CurrentStep,
		"state_json":   string(data),
		"expires_at":   state.Session.ExpiresAt,
	}).Error
}

// Load fetches a snapshot; a missing row is not an error.
func (s *GormSessionStore) Load(ctx context.Context, sessionID string) (*models.FlowState, error) {
	var snapshot SessionSnapshot
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state models.FlowState
	if err := json.Unmarshal([]byte(snapshot.StateJSON), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Clear removes the snapshot row for the session.
func (s *GormSessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&SessionSnapshot{}).Error
}

var _ SessionStore = (*GormSessionStore)(nil)

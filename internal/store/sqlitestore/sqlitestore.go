// Package sqlitestore keeps gonggu's client state in a local SQLite file.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/gonggu-app/gonggu/pkg/store"
)

// Entry is one persisted key.
type Entry struct {
	Key       string `gorm:"primarykey;size:128"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for Entry.
func (Entry) TableName() string {
	return "client_state"
}

// Store implements store.Store with GORM.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// Every new connection to ":memory:" is a fresh empty database, and a
	// single writer avoids SQLITE_BUSY on files.
	sqlDB.SetMaxOpenConns(1)
	return New(db)
}

// New migrates db and wraps it.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate client_state: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	if err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return e.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

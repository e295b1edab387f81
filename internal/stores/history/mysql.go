package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// TranscriptBlob is one profile's serialized transcript
type TranscriptBlob struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	ProfileKey string `json:"profile_key" gorm:"column:profile_key;unique;not null;size:255"`
	Data       string `json:"data" gorm:"type:mediumtext"`
}

// TableName sets the table name for GORM
func (TranscriptBlob) TableName() string {
	return "transcript_blobs"
}

// MySqlBlobStore keeps blobs in a MySQL table using GORM
type MySqlBlobStore struct {
	db *gorm.DB
}

// NewMySqlBlobStore opens a GORM connection and migrates the blob table
func NewMySqlBlobStore(databaseURL string) (*MySqlBlobStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(&TranscriptBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return &MySqlBlobStore{db: db}, nil
}

func (s *MySqlBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	var blob TranscriptBlob
	result := s.db.WithContext(ctx).Where("profile_key = ?", key).First(&blob)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob: %w", result.Error)
	}

	return []byte(blob.Data), nil
}

// Save creates the row for a new key or overwrites the data of an existing one
func (s *MySqlBlobStore) Save(ctx context.Context, key string, data []byte) error {
	result := s.db.WithContext(ctx).Where("profile_key = ?", key).First(&TranscriptBlob{})
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing blob: %w", result.Error)
		}

		// Create new record
		blob := &TranscriptBlob{ProfileKey: key, Data: string(data)}
		if err := s.db.WithContext(ctx).Create(blob).Error; err != nil {
			return fmt.Errorf("failed to create blob: %w", err)
		}
		return nil
	}

	// Update existing record
	if err := s.db.WithContext(ctx).Model(&TranscriptBlob{}).Where("profile_key = ?", key).Updates(map[string]any{
		"data": string(data),
	}).Error; err != nil {
		return fmt.Errorf("failed to update blob: %w", err)
	}
	return nil
}

func (s *MySqlBlobStore) Delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("profile_key = ?", key).Delete(&TranscriptBlob{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete blob: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (s *MySqlBlobStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}

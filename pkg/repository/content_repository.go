package repository

import (
	"context"
	"errors"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, key, value string) error
	BatchUpsert(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	Seed(ctx context.Context, defaults map[string]string) error
}

type contentRepository struct {
	logger *zap.Logger
	db     *gorm.DB
}

func NewContentRepository(logger *zap.Logger, db *gorm.DB) ContentRepository {
	return &contentRepository{
		logger: logger,
		db:     db,
	}
}

func upsertContent(db *gorm.DB, key, value string) error {
	row := models.Content{Key: key, Value: value, UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func findContent(db *gorm.DB, key string) (models.Content, error) {
	var row models.Content
	err := db.Where("content_key = ?", key).First(&row).Error
	return row, err
}

// All implements ContentRepository.
func (r *contentRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []models.Content
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		r.logger.Error("Failed to load content", zap.Error(err))
		return nil, apperror.Storage("Database error", err)
	}

	content := make(map[string]string, len(rows))
	for _, row := range rows {
		content[row.Key] = row.Value
	}
	return content, nil
}

// Get implements ContentRepository.
func (r *contentRepository) Get(ctx context.Context, key string) (string, error) {
	row, err := findContent(r.db.WithContext(ctx), key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NotFound("Content not found")
		}
		r.logger.Error("Failed to get content", zap.String("key", key), zap.Error(err))
		return "", apperror.Storage("Database error", err)
	}
	return row.Value, nil
}

// Upsert implements ContentRepository.
func (r *contentRepository) Upsert(ctx context.Context, key, value string) error {
	if err := upsertContent(r.db.WithContext(ctx), key, value); err != nil {
		r.logger.Error("Failed to save content", zap.String("key", key), zap.Error(err))
		return apperror.Storage("Database error", err)
	}
	return nil
}

// BatchUpsert implements ContentRepository. Either every key is written or
// none is.
func (r *contentRepository) BatchUpsert(ctx context.Context, values map[string]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsertContent(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save content batch", zap.Int("count", len(values)), zap.Error(err))
		return apperror.Storage("Database error", err)
	}
	return nil
}

// Delete implements ContentRepository.
func (r *contentRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("content_key = ?", key).Delete(&models.Content{})
	if result.Error != nil {
		r.logger.Error("Failed to delete content", zap.String("key", key), zap.Error(result.Error))
		return apperror.Storage("Database error", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Content not found")
	}
	return nil
}

// Seed inserts defaults whose keys do not exist yet.
func (r *contentRepository) Seed(ctx context.Context, defaults map[string]string) error {
	rows := make([]models.Content, 0, len(defaults))
	for key, value := range defaults {
		rows = append(rows, models.Content{Key: key, Value: value, UpdatedAt: time.Now()})
	}
	if len(rows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		r.logger.Error("Failed to seed content", zap.Error(err))
		return apperror.Storage("Database error", err)
	}
	return nil
}

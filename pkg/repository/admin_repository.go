package repository

import (
	"context"
	"errors"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (models.AdminUser, error)
	FindByID(ctx context.Context, id uint) (models.AdminUser, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	// Ensure creates the user or replaces its password hash.
	Ensure(ctx context.Context, username, hash string) (created bool, err error)
}

type adminRepository struct {
	logger *zap.Logger
	db     *gorm.DB
}

func NewAdminRepository(logger *zap.Logger, db *gorm.DB) AdminRepository {
	return &adminRepository{
		logger: logger,
		db:     db,
	}
}

func (r *adminRepository) find(ctx context.Context, query string, arg interface{}) (models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where(query, arg).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AdminUser{}, apperror.NotFound("Admin not found")
		}
		r.logger.Error("Failed to find admin", zap.Error(err))
		return models.AdminUser{}, apperror.Storage("Database error", err)
	}
	return admin, nil
}

// FindByUsername implements AdminRepository.
func (r *adminRepository) FindByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	return r.find(ctx, "username = ?", username)
}

// FindByID implements AdminRepository.
func (r *adminRepository) FindByID(ctx context.Context, id uint) (models.AdminUser, error) {
	return r.find(ctx, "id = ?", id)
}

// UpdatePassword implements AdminRepository.
func (r *adminRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		r.logger.Error("Failed to update password", zap.Uint("admin_id", id), zap.Error(result.Error))
		return apperror.Storage("Failed to update password", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Admin not found")
	}
	return nil
}

// Ensure implements AdminRepository.
func (r *adminRepository) Ensure(ctx context.Context, username, hash string) (bool, error) {
	admin, err := r.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return false, r.UpdatePassword(ctx, admin.ID, hash)
	case apperror.Is(err, apperror.KindNotFound):
		admin = models.AdminUser{Username: username, Password: hash, CreatedAt: time.Now()}
		if err := r.db.WithContext(ctx).Create(&admin).Error; err != nil {
			r.logger.Error("Failed to create admin", zap.String("username", username), zap.Error(err))
			return false, apperror.Storage("Database error", err)
		}
		return true, nil
	default:
		return false, err
	}
}

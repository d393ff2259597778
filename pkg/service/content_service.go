package service

import (
	"context"
	"strings"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"go.uber.org/zap"
)

type ContentService interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, error)
	Update(ctx context.Context, req ContentRequest) error
	BatchUpdate(ctx context.Context, req BatchContentRequest) (int, error)
	Delete(ctx context.Context, key string) error
}

type contentService struct {
	logger     *zap.Logger
	repository repository.ContentRepository
	cache      repository.ContentCache
}

type ContentServiceProperty struct {
	Logger            *zap.Logger
	ContentRepository repository.ContentRepository
	Cache             repository.ContentCache
}

func NewContentService(props ContentServiceProperty) ContentService {
	cache := props.Cache
	if cache == nil {
		cache = repository.NoopContentCache()
	}
	return &contentService{
		logger:     props.Logger.Named("content-service"),
		repository: props.ContentRepository,
		cache:      cache,
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return apperror.Validation("Key is required")
	}
	if key == models.ManualRevenueKey {
		return apperror.Validation("%s is managed through the revenue endpoint", models.ManualRevenueKey)
	}
	return nil
}

func (s *contentService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateContent(ctx); err != nil {
		s.logger.Warn("Failed to invalidate content cache", zap.Error(err))
	}
}

// All implements ContentService. The ledger row is not site text and is
// left out.
func (s *contentService) All(ctx context.Context) (map[string]string, error) {
	if content, ok := s.cache.GetContent(ctx); ok {
		return content, nil
	}

	content, err := s.repository.All(ctx)
	if err != nil {
		return nil, err
	}
	delete(content, models.ManualRevenueKey)

	if err := s.cache.SetContent(ctx, content); err != nil {
		s.logger.Warn("Failed to cache content", zap.Error(err))
	}
	return content, nil
}

// Get implements ContentService.
func (s *contentService) Get(ctx context.Context, key string) (string, error) {
	if key == models.ManualRevenueKey {
		return "", apperror.NotFound("Content not found")
	}
	if content, ok := s.cache.GetContent(ctx); ok {
		if value, found := content[key]; found {
			return value, nil
		}
	}
	return s.repository.Get(ctx, key)
}

// Update implements ContentService.
func (s *contentService) Update(ctx context.Context, req ContentRequest) error {
	if err := checkKey(req.Key); err != nil {
		return err
	}
	if err := s.repository.Upsert(ctx, req.Key, req.Value); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// BatchUpdate implements ContentService and reports how many keys were
// written.
func (s *contentService) BatchUpdate(ctx context.Context, req BatchContentRequest) (int, error) {
	if req.Updates == nil {
		return 0, apperror.Validation("Updates object is required")
	}
	for key := range req.Updates {
		if err := checkKey(key); err != nil {
			return 0, err
		}
	}
	if len(req.Updates) == 0 {
		return 0, nil
	}

	if err := s.repository.BatchUpsert(ctx, req.Updates); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return len(req.Updates), nil
}

// Delete implements ContentService.
func (s *contentService) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

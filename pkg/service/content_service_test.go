package service

import (
	"context"
	"testing"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryContentCache struct {
	content     map[string]string
	invalidated int
}

func (c *memoryContentCache) GetContent(context.Context) (map[string]string, bool) {
	return c.content, c.content != nil
}

func (c *memoryContentCache) SetContent(_ context.Context, content map[string]string) error {
	c.content = content
	return nil
}

func (c *memoryContentCache) InvalidateContent(context.Context) error {
	c.content = nil
	c.invalidated++
	return nil
}

func TestContentService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cache := &memoryContentCache{}
	svc := NewContentService(ContentServiceProperty{
		Logger:            zap.NewNop(),
		ContentRepository: repository.NewContentRepository(zap.NewNop(), db),
		Cache:             cache,
	})

	_, err := repository.NewRevenueLedger(zap.NewNop(), db).Set(ctx, decimal.NewFromInt(40))
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, ContentRequest{Key: "hero_title", Value: "Señorita"}))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hero_title": "Señorita"}, all)
	assert.NotNil(t, cache.content)

	updated, err := svc.BatchUpdate(ctx, BatchContentRequest{Updates: map[string]string{"phone": "555", "hours": "6am"}})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Nil(t, cache.content)

	value, err := svc.Get(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, "555", value)

	require.NoError(t, svc.Delete(ctx, "phone"))
	_, err = svc.Get(ctx, "phone")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, 3, cache.invalidated)
}

func TestContentService_ProtectsRevenueKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewContentService(ContentServiceProperty{
		Logger:            zap.NewNop(),
		ContentRepository: repository.NewContentRepository(zap.NewNop(), db),
	})

	err := svc.Update(ctx, ContentRequest{Key: models.ManualRevenueKey, Value: "1000"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.BatchUpdate(ctx, BatchContentRequest{Updates: map[string]string{"phone": "555", models.ManualRevenueKey: "1"}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	err = svc.Delete(ctx, models.ManualRevenueKey)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.Get(ctx, models.ManualRevenueKey)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = svc.Update(ctx, ContentRequest{Key: " "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.BatchUpdate(ctx, BatchContentRequest{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

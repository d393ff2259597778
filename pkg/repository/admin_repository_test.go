package repository

import (
	"context"
	"testing"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository_Ensure(t *testing.T) {
	repo := NewAdminRepository(testLogger(), newTestDB(t))
	ctx := context.Background()

	created, err := repo.Ensure(ctx, "admin", "hash-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Ensure(ctx, "admin", "hash-2")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", admin.Password)

	byID, err := repo.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", byID.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = repo.UpdatePassword(ctx, admin.ID+1, "x")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

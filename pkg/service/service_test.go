package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/notifier"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 10:00 on 2026-03-14 in the bakery's time zone.
var fixedNow = time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func pacific(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []notifier.OrderSnapshot
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, order notifier.OrderSnapshot) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.orders)
}

type channelAuditRecorder struct {
	logs chan *repository.AuditLog
}

func (r *channelAuditRecorder) CreateAuditLog(_ context.Context, log *repository.AuditLog) error {
	r.logs <- log
	return nil
}

func (r *channelAuditRecorder) GetAuditLogs(context.Context, string, int64) ([]*repository.AuditLog, error) {
	return []*repository.AuditLog{}, nil
}

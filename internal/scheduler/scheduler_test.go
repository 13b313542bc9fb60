package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	cutoff time.Time
	n      int64
	err    error
	calls  int
}

func (f *fakeStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.n, f.err
}

type auditCall struct {
	userID       int
	action       string
	resourceType string
	details      string
}

type fakeAudit struct {
	calls []auditCall
}

func (f *fakeAudit) Log(_ context.Context, userID int, action, resourceType string, _ int, details string) error {
	f.calls = append(f.calls, auditCall{userID, action, resourceType, details})
	return nil
}

func TestPruneOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{n: 4}
	audit := &fakeAudit{}
	p := &Pruner{Store: store, Audit: audit, Retention: 30 * 24 * time.Hour, Now: func() time.Time { return now }}

	n, err := p.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, now.AddDate(0, 0, -30), store.cutoff)

	require.Len(t, audit.calls, 1)
	assert.Equal(t, 0, audit.calls[0].userID)
	assert.Equal(t, models.AuditPrune, audit.calls[0].action)
	assert.Equal(t, models.ResourceSongRequest, audit.calls[0].resourceType)
	assert.True(t, strings.HasPrefix(audit.calls[0].details, "removed 4 song requests"))
}

func TestPruneOnce_NothingToDelete(t *testing.T) {
	audit := &fakeAudit{}
	p := &Pruner{Store: &fakeStore{}, Audit: audit, Retention: time.Hour}

	n, err := p.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, audit.calls)
}

func TestPruneOnce_Disabled(t *testing.T) {
	store := &fakeStore{n: 10}
	p := &Pruner{Store: store}

	n, err := p.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, store.calls)
}

func TestPruneOnce_StoreError(t *testing.T) {
	p := &Pruner{Store: &fakeStore{err: errors.New("db down")}, Retention: time.Hour}
	_, err := p.PruneOnce(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestNew_InvalidExpression(t *testing.T) {
	_, err := New("not a cron", &Pruner{})
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New("@daily", &Pruner{Store: &fakeStore{}})
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

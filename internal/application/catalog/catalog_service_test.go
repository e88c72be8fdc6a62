package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/bulk"
)

type stubSyncRunRepo struct {
	latest    *bulk.SyncRun
	latestErr error
	saved     []*bulk.SyncRun
	saveErr   error
}

func (s *stubSyncRunRepo) Save(_ context.Context, run *bulk.SyncRun) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, run)
	return nil
}

func (s *stubSyncRunRepo) FindByID(_ context.Context, _ uuid.UUID) (*bulk.SyncRun, error) {
	return nil, bulk.ErrRunNotFound
}

func (s *stubSyncRunRepo) FindLatest(_ context.Context, _ uuid.UUID) (*bulk.SyncRun, error) {
	return s.latest, s.latestErr
}

func (s *stubSyncRunRepo) FindAll(_ context.Context, _ uuid.UUID, _ int) ([]bulk.SyncRun, error) {
	return nil, nil
}

func inProgressRun(t *testing.T, integrationID uuid.UUID, cursor string) *bulk.SyncRun {
	t.Helper()
	run, err := bulk.NewSyncRun(integrationID)
	require.NoError(t, err)
	require.NoError(t, run.Start())
	run.BeginPage(3)
	run.RecordImported()
	run.RecordImported()
	run.AdvanceCursor(cursor)
	return run
}

func TestSyncRunHistoryService_RecoverInterrupted(t *testing.T) {
	integrationID := uuid.New()

	t.Run("fails a run left in_progress by a dead process", func(t *testing.T) {
		run := inProgressRun(t, integrationID, "cursor-42")
		repo := &stubSyncRunRepo{latest: run}
		svc := NewSyncRunHistoryService(repo, zap.NewNop())

		recovered, err := svc.RecoverInterrupted(context.Background(), integrationID)

		require.NoError(t, err)
		require.NotNil(t, recovered)
		assert.Equal(t, bulk.RunStatusFailed, recovered.Status)
		assert.True(t, recovered.Status.IsTerminal())
		assert.Equal(t, "cursor-42", recovered.LastCursor)
		require.NotNil(t, recovered.CompletedAt)
		require.NotEmpty(t, recovered.Errors)
		assert.Contains(t, recovered.Errors[len(recovered.Errors)-1].Message, "interrupted")
		require.Len(t, repo.saved, 1)
		assert.Same(t, run, repo.saved[0])
	})

	t.Run("no-op when the latest run already finished", func(t *testing.T) {
		run := inProgressRun(t, integrationID, "cursor-7")
		require.NoError(t, run.Complete())
		repo := &stubSyncRunRepo{latest: run}
		svc := NewSyncRunHistoryService(repo, zap.NewNop())

		recovered, err := svc.RecoverInterrupted(context.Background(), integrationID)

		require.NoError(t, err)
		assert.Nil(t, recovered)
		assert.Empty(t, repo.saved)
		assert.Equal(t, bulk.RunStatusComplete, run.Status)
	})

	t.Run("no-op when no run exists yet", func(t *testing.T) {
		repo := &stubSyncRunRepo{}
		svc := NewSyncRunHistoryService(repo, zap.NewNop())

		recovered, err := svc.RecoverInterrupted(context.Background(), integrationID)

		require.NoError(t, err)
		assert.Nil(t, recovered)
		assert.Empty(t, repo.saved)
	})

	t.Run("leaves a pending run alone", func(t *testing.T) {
		run, err := bulk.NewSyncRun(integrationID)
		require.NoError(t, err)
		repo := &stubSyncRunRepo{latest: run}
		svc := NewSyncRunHistoryService(repo, zap.NewNop())

		recovered, err := svc.RecoverInterrupted(context.Background(), integrationID)

		require.NoError(t, err)
		assert.Nil(t, recovered)
		assert.Equal(t, bulk.RunStatusPending, run.Status)
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		repo := &stubSyncRunRepo{latestErr: errors.New("connection refused")}
		svc := NewSyncRunHistoryService(repo, zap.NewNop())

		_, err := svc.RecoverInterrupted(context.Background(), integrationID)

		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("propagates save errors", func(t *testing.T) {
		run := inProgressRun(t, integrationID, "cursor-9")
		repo := &stubSyncRunRepo{latest: run, saveErr: errors.New("write failed")}
		svc := NewSyncRunHistoryService(repo, zap.NewNop())

		_, err := svc.RecoverInterrupted(context.Background(), integrationID)

		assert.ErrorContains(t, err, "write failed")
	})
}

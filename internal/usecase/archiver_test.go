package usecase

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// mockGateway is a mock implementation of the gateway.Gateway interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockGateway struct {
	mock.Mock
}

// Repositories yields the configured snapshots, then the configured error if any.
func (m *mockGateway) Repositories(ctx context.Context, org, label string) iter.Seq2[domain.RepositorySnapshot, error] {
	args := m.Called(ctx, org, label)
	snapshots, _ := args.Get(0).([]domain.RepositorySnapshot)
	listErr := args.Error(1)
	return func(yield func(domain.RepositorySnapshot, error) bool) {
		for _, snapshot := range snapshots {
			if !yield(snapshot, nil) {
				return
			}
		}
		if listErr != nil {
			yield(domain.RepositorySnapshot{}, listErr)
		}
	}
}

func (m *mockGateway) CreateNotificationIssue(ctx context.Context, org, repo string, notice domain.Notice) error {
	args := m.Called(ctx, org, repo, notice)
	return args.Error(0)
}

func (m *mockGateway) ArchiveRepository(ctx context.Context, org, repo string) error {
	args := m.Called(ctx, org, repo)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stale(name string) domain.RepositorySnapshot {
	return domain.RepositorySnapshot{Name: name, UpdatedAt: daysAgo(400)}
}

func TestArchiver_Run(t *testing.T) {
	ctx := context.Background()
	notice := BuildNotice(testConfig())

	t.Run("happy path - notifies, archives and ignores", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{
			{Name: "active", UpdatedAt: daysAgo(100)},
			stale("stale"),
			withNotice("waiting", 400, 10),
			withNotice("expired", 400, 31),
		}, nil)
		gw.On("CreateNotificationIssue", ctx, "test-org", "stale", notice).Return(nil).Once()
		gw.On("ArchiveRepository", ctx, "test-org", "expired").Return(nil).Once()

		summary, err := NewArchiver(gw, discardLogger(), false).Run(ctx, "test-org", testConfig(), now)

		require.NoError(t, err)
		gw.AssertExpectations(t)
		assert.Equal(t, 4, summary.RepositoriesScanned)
		assert.Equal(t, 1, summary.Notified)
		assert.Equal(t, 1, summary.Archived)
		assert.Equal(t, 400.0, summary.MedianInactiveDays)
		assert.Equal(t, 400.0, summary.MaxInactiveDays)
		assert.Equal(t, "Script completed. 4 repositories checked. 1 issues created. 1 repositories archived.", summary.Message)
	})

	t.Run("cap bounds notifications but not archives", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaximumNotifications = 2
		capNotice := BuildNotice(cfg)

		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{
			stale("a"), stale("b"), stale("c"), stale("d"),
			withNotice("x", 400, 40), withNotice("y", 400, 40), withNotice("z", 400, 40),
		}, nil)
		gw.On("CreateNotificationIssue", ctx, "test-org", mock.Anything, capNotice).Return(nil)
		gw.On("ArchiveRepository", ctx, "test-org", mock.Anything).Return(nil)

		summary, err := NewArchiver(gw, discardLogger(), false).Run(ctx, "test-org", cfg, now)

		require.NoError(t, err)
		gw.AssertNumberOfCalls(t, "CreateNotificationIssue", 2)
		gw.AssertCalled(t, "CreateNotificationIssue", ctx, "test-org", "a", capNotice)
		gw.AssertCalled(t, "CreateNotificationIssue", ctx, "test-org", "b", capNotice)
		gw.AssertNumberOfCalls(t, "ArchiveRepository", 3)
		assert.Equal(t, 2, summary.Notified)
		assert.Equal(t, 2, summary.SkippedByCap)
		assert.Equal(t, 3, summary.Archived)
	})

	t.Run("cap of zero never notifies", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaximumNotifications = 0

		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{
			stale("a"), stale("b"),
		}, nil)

		summary, err := NewArchiver(gw, discardLogger(), false).Run(ctx, "test-org", cfg, now)

		require.NoError(t, err)
		gw.AssertNotCalled(t, "CreateNotificationIssue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 0, summary.Notified)
		assert.Equal(t, 2, summary.SkippedByCap)
	})

	t.Run("mutation failures are counted and the run continues", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaximumNotifications = 5

		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{
			stale("issues-disabled"),
			withNotice("forbidden", 400, 40),
			stale("ok"),
			withNotice("archivable", 400, 40),
		}, nil)
		gw.On("CreateNotificationIssue", ctx, "test-org", "issues-disabled", mock.Anything).
			Return(&domain.UpstreamError{Operation: "create notification issue", Repository: "issues-disabled", Err: errors.New("410 Issues are disabled")})
		gw.On("CreateNotificationIssue", ctx, "test-org", "ok", mock.Anything).Return(nil)
		gw.On("ArchiveRepository", ctx, "test-org", "forbidden").
			Return(&domain.UpstreamError{Operation: "archive repository", Repository: "forbidden", Err: errors.New("403 Forbidden")})
		gw.On("ArchiveRepository", ctx, "test-org", "archivable").Return(nil)

		summary, err := NewArchiver(gw, discardLogger(), false).Run(ctx, "test-org", cfg, now)

		require.NoError(t, err)
		gw.AssertExpectations(t)
		assert.Equal(t, 4, summary.RepositoriesScanned)
		assert.Equal(t, 1, summary.Notified)
		assert.Equal(t, 1, summary.NotifyFailures)
		assert.Equal(t, 1, summary.Archived)
		assert.Equal(t, 1, summary.ArchiveFailures)
	})

	t.Run("error case - listing failure aborts the run", func(t *testing.T) {
		listErr := &domain.UpstreamError{Operation: "list repositories", Err: errors.New("502 Bad Gateway")}
		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{stale("a")}, listErr)
		gw.On("CreateNotificationIssue", ctx, "test-org", "a", notice).Return(nil)

		summary, err := NewArchiver(gw, discardLogger(), false).Run(ctx, "test-org", testConfig(), now)

		assert.ErrorIs(t, err, listErr)
		assert.Nil(t, summary)
	})

	t.Run("dry run decides without mutating", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{
			stale("stale"),
			withNotice("expired", 400, 31),
		}, nil)

		summary, err := NewArchiver(gw, discardLogger(), true).Run(ctx, "test-org", testConfig(), now)

		require.NoError(t, err)
		gw.AssertNotCalled(t, "CreateNotificationIssue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		gw.AssertNotCalled(t, "ArchiveRepository", mock.Anything, mock.Anything, mock.Anything)
		assert.True(t, summary.DryRun)
		assert.Equal(t, 1, summary.Notified)
		assert.Equal(t, 1, summary.Archived)
	})

	t.Run("empty organization", func(t *testing.T) {
		gw := new(mockGateway)
		gw.On("Repositories", ctx, "test-org", "archive-notice").Return(nil, nil)

		summary, err := NewArchiver(gw, discardLogger(), false).Run(ctx, "test-org", testConfig(), now)

		require.NoError(t, err)
		assert.Equal(t, &domain.Summary{
			Organization: "test-org",
			Message:      "Script completed. 0 repositories checked. 0 issues created. 0 repositories archived.",
		}, summary)
	})

	t.Run("cancelled context stops before mutating", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		gw := new(mockGateway)
		gw.On("Repositories", cancelled, "test-org", "archive-notice").Return([]domain.RepositorySnapshot{stale("a")}, nil)

		_, err := NewArchiver(gw, discardLogger(), false).Run(cancelled, "test-org", testConfig(), now)

		assert.ErrorIs(t, err, context.Canceled)
		gw.AssertNotCalled(t, "CreateNotificationIssue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReporter_Summary(t *testing.T) {
	reporter := NewReporter(discardLogger())
	for _, days := range []int{10, 400, 30, 900} {
		reporter.Observe(domain.Decision{InactiveDays: days})
	}
	reporter.Observe(domain.Decision{InactiveDays: 500, Reason: domain.ReasonCapReached})
	reporter.Notified()
	reporter.Archived()
	reporter.Archived()
	reporter.NotifyFailed()

	summary := reporter.Summary("test-org", false)

	assert.Equal(t, 5, summary.RepositoriesScanned)
	assert.Equal(t, 1, summary.SkippedByCap)
	assert.Equal(t, 1, summary.Notified)
	assert.Equal(t, 2, summary.Archived)
	assert.Equal(t, 1, summary.NotifyFailures)
	assert.Equal(t, 400.0, summary.MedianInactiveDays)
	assert.Equal(t, 900.0, summary.MaxInactiveDays)
	assert.Equal(t, "Script completed. 5 repositories checked. 1 issues created. 2 repositories archived.", summary.Message)
}

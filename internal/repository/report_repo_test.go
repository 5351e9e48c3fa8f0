package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

func newReportRepo(t *testing.T) ReportRepository {
	t.Helper()
	db := setupTestDB(t, &models.Report{})
	return NewReportRepository(db, testValidator(), testLogger())
}

func TestReportRepositoryCreateNormalizesStatus(t *testing.T) {
	repo := newReportRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateReportParams{
		ReporterID:      int64Ptr(1),
		TargetCommentID: int64Ptr(2),
		Reason:          "inappropriate content",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusPending, created.Status)
	require.Nil(t, created.ResolvedAt)

	_, err = repo.Create(ctx, CreateReportParams{Reason: "x", Status: "bogus"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = repo.Create(ctx, CreateReportParams{Status: models.ReportStatusPending})
	require.ErrorIs(t, err, ErrValidation, "reason is required")
}

func TestReportRepositoryResolve(t *testing.T) {
	repo := newReportRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateReportParams{Reason: "spam"})
	require.NoError(t, err)

	resolved, err := repo.Resolve(ctx, created.ID, "removed the comment")
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	require.Equal(t, "removed the comment", *resolved.ResolutionNotes)
	require.False(t, resolved.Modified.Before(created.Created))

	// resolving again simply re-sets the same fields
	again, err := repo.Resolve(ctx, created.ID, "removed the comment")
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, again.Status)

	_, err = repo.Resolve(ctx, 424242, "no such report")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepositoryEscalate(t *testing.T) {
	repo := newReportRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateReportParams{Reason: "harassment"})
	require.NoError(t, err)

	escalated, err := repo.Escalate(ctx, created.ID, "needs legal review")
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusEscalated, escalated.Status)
	require.NotNil(t, escalated.ResolvedAt)
	require.Equal(t, "needs legal review", *escalated.ResolutionNotes)
}

func TestReportRepositoryListByStatus(t *testing.T) {
	db := setupTestDB(t, &models.Report{})
	repo := NewReportRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	older := models.Report{Reason: "first", Status: models.ReportStatusPending, Created: now.Add(-2 * time.Hour)}
	newer := models.Report{Reason: "second", Status: models.ReportStatusPending, Created: now.Add(-1 * time.Hour)}
	closed := models.Report{Reason: "done", Status: models.ReportStatusResolved, Created: now}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&closed).Error)

	pending, err := repo.ListByStatus(ctx, models.ReportStatusPending, ListParams{})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "second", pending[0].Reason, "default order is created DESC")

	count, err := repo.CountByStatus(ctx, models.ReportStatusPending)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	_, err = repo.ListByStatus(ctx, "unknown", ListParams{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestReportRepositorySearchAndReporterListing(t *testing.T) {
	repo := newReportRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateReportParams{Reason: "contains slurs", ReporterID: int64Ptr(3)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateReportParams{Reason: "off topic", ReporterID: int64Ptr(4)})
	require.NoError(t, err)

	matches, err := repo.SearchByReason(ctx, "slurs")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	mine, err := repo.ListByReporterID(ctx, 3, 1, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, int64(3), *mine[0].ReporterID)
}

func TestReportRepositoryUpdateAndDelete(t *testing.T) {
	repo := newReportRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateReportParams{Reason: "draft"})
	require.NoError(t, err)

	status := models.ReportStatusEscalated
	updated, err := repo.Update(ctx, created.ID, UpdateReportParams{Reason: strPtr("final"), Status: &status})
	require.NoError(t, err)
	require.Equal(t, "final", updated.Reason)
	require.Equal(t, models.ReportStatusEscalated, updated.Status)

	bad := models.ReportStatus("nope")
	_, err = repo.Update(ctx, created.ID, UpdateReportParams{Status: &bad})
	require.ErrorIs(t, err, ErrValidation)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

func TestConversationRepositoryCreateAndGet(t *testing.T) {
	db := setupTestDB(t, &models.Conversation{})
	repo := NewConversationRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateConversationParams{
		Title:       "Transit Plan",
		Description: "How should the city improve transit?",
		UserID:      int64Ptr(7),
		Metadata:    map[string]interface{}{"strict_moderation": true},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.IsArchived)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Transit Plan", found.Title)
	require.Equal(t, int64(7), *found.UserID)

	_, err = repo.Create(ctx, CreateConversationParams{Description: "missing title"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestConversationRepositoryListOrdersAndFilters(t *testing.T) {
	db := setupTestDB(t, &models.Conversation{})
	repo := NewConversationRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	older := models.Conversation{Title: "Older", UserID: int64Ptr(1), Created: now.Add(-2 * time.Hour)}
	newer := models.Conversation{Title: "Newer", UserID: int64Ptr(2), Created: now.Add(-1 * time.Hour)}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	// default listing is created DESC
	conversations, err := repo.List(ctx, ConversationFilter{})
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	require.Equal(t, "Newer", conversations[0].Title)

	// explicit ascending order
	conversations, err = repo.List(ctx, ConversationFilter{ListParams: ListParams{OrderBy: "created", OrderDirection: "ASC"}})
	require.NoError(t, err)
	require.Equal(t, "Older", conversations[0].Title)

	// columns outside the allow-list fall back to created
	conversations, err = repo.List(ctx, ConversationFilter{ListParams: ListParams{OrderBy: "auth_token; DROP TABLE users"}})
	require.NoError(t, err)
	require.Equal(t, "Newer", conversations[0].Title)

	// owner filter
	conversations, err = repo.List(ctx, ConversationFilter{UserID: int64Ptr(1)})
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Equal(t, "Older", conversations[0].Title)
}

func TestConversationRepositorySearchMatchesTitleOrDescription(t *testing.T) {
	db := setupTestDB(t, &models.Conversation{})
	repo := NewConversationRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateConversationParams{Title: "Budget 2025", Description: "general spending"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateConversationParams{Title: "Parks", Description: "budget for green spaces"})
	require.NoError(t, err)

	matches, err := repo.Search(ctx, "2025")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "Budget 2025", matches[0].Title)

	// description matches count too
	matches, err = repo.Search(ctx, "green spaces")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "Parks", matches[0].Title)

	matches, err = repo.Search(ctx, "nothing here")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestConversationRepositoryArchive(t *testing.T) {
	db := setupTestDB(t, &models.Conversation{})
	repo := NewConversationRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateConversationParams{Title: "Short lived"})
	require.NoError(t, err)

	archived, err := repo.Archive(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, archived.IsArchived)
	require.False(t, archived.Modified.Before(created.Created))

	list, err := repo.ListByArchivedStatus(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.Archive(ctx, 4242)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConversationRepositoryUpdateDeleteCount(t *testing.T) {
	db := setupTestDB(t, &models.Conversation{})
	repo := NewConversationRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateConversationParams{Title: "Draft"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, UpdateConversationParams{
		Title:       strPtr("Final"),
		Description: strPtr("now with details"),
	})
	require.NoError(t, err)
	require.Equal(t, "Final", updated.Title)
	require.Equal(t, "now with details", updated.Description)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	total, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, total)
}

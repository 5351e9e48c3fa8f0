package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/litepolis/litepolis-database-go/internal/models"
)

func newUserRepo(t *testing.T) UserRepository {
	t.Helper()
	db := setupTestDB(t, &models.User{})
	return NewUserRepository(db, testValidator(), testLogger())
}

func TestUserRepositoryCreateAndGetByEmail(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserParams{Email: "a@x.com", AuthToken: "tok-1"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.IsAdmin)

	found, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Equal(t, "a@x.com", found.Email)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, CreateUserParams{Email: "a@x.com", AuthToken: "tok-1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserParams{Email: "a@x.com", AuthToken: "tok-2"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// the first record stays readable
	found, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "tok-1", found.AuthToken)
}

func TestUserRepositoryCreateRejectsInvalidPayload(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserParams{Email: "not-an-email", AuthToken: "tok"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = repo.Create(ctx, CreateUserParams{Email: "a@x.com"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	repo := newUserRepo(t)

	_, err := repo.GetByID(context.Background(), 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryListPaginatesDisjointly(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	emails := []string{"u1@x.com", "u2@x.com", "u3@x.com", "u4@x.com", "u5@x.com"}
	for _, email := range emails {
		_, err := repo.Create(ctx, CreateUserParams{Email: email, AuthToken: "tok"})
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	for page := 1; page <= 3; page++ {
		users, err := repo.List(ctx, page, 2)
		require.NoError(t, err)
		for _, u := range users {
			require.False(t, seen[u.ID], "page %d returned duplicate id %d", page, u.ID)
			seen[u.ID] = true
		}
	}
	require.Len(t, seen, 5)
}

func TestUserRepositoryListNormalizesPageArguments(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserParams{Email: "a@x.com", AuthToken: "tok"})
	require.NoError(t, err)

	// page < 1 becomes page 1, page_size < 1 becomes 10
	users, err := repo.List(ctx, -3, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestUserRepositoryUpdateRefreshesModified(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserParams{Email: "a@x.com", AuthToken: "tok"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, UpdateUserParams{Email: strPtr("b@x.com"), IsAdmin: boolPtr(true)})
	require.NoError(t, err)
	require.Equal(t, "b@x.com", updated.Email)
	require.True(t, updated.IsAdmin)
	require.Equal(t, "tok", updated.AuthToken, "unset fields must be untouched")
	require.False(t, updated.Modified.Before(created.Created))

	_, err = repo.Update(ctx, 99999, UpdateUserParams{Email: strPtr("c@x.com")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserParams{Email: "a@x.com", AuthToken: "tok"})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUserRepositorySearchAndFilters(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserParams{Email: "alice@example.com", AuthToken: "tok"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserParams{Email: "bob@other.org", AuthToken: "tok", IsAdmin: true})
	require.NoError(t, err)

	matches, err := repo.SearchByEmail(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "alice@example.com", matches[0].Email)

	admins, err := repo.ListByAdminStatus(ctx, true)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	require.Equal(t, "bob@other.org", admins[0].Email)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestUserRepositoryListCreatedInRangeIsInclusive(t *testing.T) {
	db := setupTestDB(t, &models.User{})
	repo := NewUserRepository(db, testValidator(), testLogger())
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	inside := models.User{Email: "in@x.com", AuthToken: "tok", Created: base}
	edge := models.User{Email: "edge@x.com", AuthToken: "tok", Created: base.Add(24 * time.Hour)}
	outside := models.User{Email: "out@x.com", AuthToken: "tok", Created: base.Add(48 * time.Hour)}
	require.NoError(t, db.Create(&inside).Error)
	require.NoError(t, db.Create(&edge).Error)
	require.NoError(t, db.Create(&outside).Error)

	users, err := repo.ListCreatedInRange(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, users, 2)
}

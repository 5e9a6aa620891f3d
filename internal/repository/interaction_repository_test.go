package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkotliar/matchmaker/internal/db"
	"github.com/vkotliar/matchmaker/internal/repository"
)

func TestRecordLikeIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	inserted, err := repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, inserted)

	// duplicate insert is a no-op, not an error
	inserted, err = repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int64
	require.NoError(t, dbase.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	has, err := repo.HasLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, has)

	// direction matters
	has, err = repo.HasLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRecordViewIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	require.NoError(t, repo.RecordView(ctx, 1, 2))
	require.NoError(t, repo.RecordView(ctx, 1, 2))

	var count int64
	require.NoError(t, dbase.Model(&db.ProfileView{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateMatchCanonicalAndIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	created, err := repo.CreateMatch(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, created)

	// same unordered pair from the other direction is absorbed
	created, err = repo.CreateMatch(ctx, 3, 7)
	require.NoError(t, err)
	assert.False(t, created)

	var matches []db.Match
	require.NoError(t, dbase.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(3), matches[0].UserLowID)
	assert.Equal(t, uint64(7), matches[0].UserHighID)
}

func TestCountAdmirers(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	_, _ = repo.RecordLike(ctx, 2, 1)
	_, _ = repo.RecordLike(ctx, 3, 1)
	_, _ = repo.RecordLike(ctx, 1, 2)

	count, err := repo.CountAdmirers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMatchesForOrderingAndPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	matches := []db.Match{
		{UserLowID: 1, UserHighID: 2, CreatedAt: now.Add(-3 * time.Hour)},
		{UserLowID: 1, UserHighID: 4, CreatedAt: now.Add(-2 * time.Hour)},
		{UserLowID: 1, UserHighID: 6, CreatedAt: now.Add(-1 * time.Hour)},
		{UserLowID: 5, UserHighID: 9, CreatedAt: now}, // someone else's match
	}
	require.NoError(t, dbase.Create(&matches).Error)

	entries, nextToken, err := repo.MatchesFor(ctx, 1, nil, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(6), entries[0].MateID)
	assert.Equal(t, uint64(4), entries[1].MateID)
	require.NotNil(t, nextToken)

	entries, nextToken, err = repo.MatchesFor(ctx, 1, nextToken, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(2), entries[0].MateID)
	assert.Nil(t, nextToken)
}

func TestMatchesForCounterpartResolution(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	// user 5 occupies both slots of the canonical pair across rows
	now := time.Now().UTC().Truncate(time.Millisecond)
	matches := []db.Match{
		{UserLowID: 2, UserHighID: 5, CreatedAt: now.Add(-time.Hour)},
		{UserLowID: 5, UserHighID: 8, CreatedAt: now},
	}
	require.NoError(t, dbase.Create(&matches).Error)

	entries, _, err := repo.MatchesFor(ctx, 5, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(8), entries[0].MateID)
	assert.Equal(t, uint64(2), entries[1].MateID)
}

func TestMatchesForInvalidToken(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	bad := "not-base64!"
	_, _, err := repo.MatchesFor(ctx, 1, &bad, 10)
	assert.Error(t, err)
}

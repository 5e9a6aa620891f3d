package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vkotliar/matchmaker/internal/db"
	"github.com/vkotliar/matchmaker/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&db.Profile{}, &db.Like{}, &db.ProfileView{}, &db.Match{}, &db.AgeChange{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func testProfile(id uint64, age int, gender, lookingFor string) *db.Profile {
	return &db.Profile{
		UserID:     id,
		Name:       "tester",
		Age:        age,
		Gender:     gender,
		City:       "Berlin",
		LookingFor: lookingFor,
		MinAge:     18,
		MaxAge:     100,
		Active:     true,
	}
}

func TestCreateAndGetProfile(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	require.NoError(t, repo.Create(ctx, testProfile(1, 30, db.GenderFemale, db.LookingForMale)))

	exists, err := repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Age)
	assert.Equal(t, db.GenderFemale, got.Gender)
	assert.True(t, got.Active)

	_, err = repo.Get(ctx, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateProfileConflict(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	require.NoError(t, repo.Create(ctx, testProfile(1, 30, db.GenderFemale, db.LookingForMale)))

	dup := testProfile(1, 55, db.GenderMale, db.LookingForAny)
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// original row untouched
	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Age)
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	require.NoError(t, repo.Create(ctx, testProfile(1, 30, db.GenderFemale, db.LookingForMale)))

	require.NoError(t, repo.UpdateField(ctx, 1, "bio", "hello"))
	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)

	err = repo.UpdateField(ctx, 99, "bio", "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateAgeWritesHistoryAtomically(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	require.NoError(t, repo.Create(ctx, testProfile(1, 30, db.GenderFemale, db.LookingForMale)))

	require.NoError(t, repo.UpdateAge(ctx, 1, 30, 31))

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)

	var changes []db.AgeChange
	require.NoError(t, dbase.Find(&changes).Error)
	require.Len(t, changes, 1)
	assert.Equal(t, 30, changes[0].OldAge)
	assert.Equal(t, 31, changes[0].NewAge)

	// a missing profile rolls back: no orphan history row
	err = repo.UpdateAge(ctx, 99, 30, 31)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, dbase.Model(&db.AgeChange{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAgeChangeHistoryQueries(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	last, err := repo.LastAgeChange(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, last)

	now := time.Now().UTC().Truncate(time.Millisecond)
	changes := []db.AgeChange{
		{UserID: 1, OldAge: 30, NewAge: 31, ChangedAt: now.Add(-40 * 24 * time.Hour)},
		{UserID: 1, OldAge: 31, NewAge: 32, ChangedAt: now.Add(-10 * 24 * time.Hour)},
		{UserID: 1, OldAge: 32, NewAge: 33, ChangedAt: now.Add(-2 * 24 * time.Hour)},
		{UserID: 2, OldAge: 20, NewAge: 21, ChangedAt: now.Add(-time.Hour)},
	}
	require.NoError(t, dbase.Create(&changes).Error)

	last, err = repo.LastAgeChange(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 33, last.NewAge)

	count, err := repo.CountAgeChangesSince(ctx, 1, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEligibleCandidates(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	requester := testProfile(1, 30, db.GenderFemale, db.LookingForMale)
	requester.MinAge, requester.MaxAge = 25, 35
	require.NoError(t, repo.Create(ctx, requester))

	eligible := testProfile(2, 28, db.GenderMale, db.LookingForFemale)
	tooYoung := testProfile(3, 22, db.GenderMale, db.LookingForFemale)
	wrongGender := testProfile(4, 28, db.GenderFemale, db.LookingForMale)
	inactive := testProfile(5, 28, db.GenderMale, db.LookingForFemale)
	inactive.Active = false
	liked := testProfile(6, 28, db.GenderMale, db.LookingForFemale)
	viewed := testProfile(7, 28, db.GenderMale, db.LookingForFemale)

	for _, p := range []*db.Profile{eligible, tooYoung, wrongGender, inactive, liked, viewed} {
		require.NoError(t, repo.Create(ctx, p))
	}

	require.NoError(t, dbase.Create(&db.Like{FromUserID: 1, ToUserID: 6}).Error)
	require.NoError(t, dbase.Create(&db.ProfileView{ViewerID: 1, ViewedID: 7}).Error)

	candidates, err := repo.EligibleCandidates(ctx, requester)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint64(2), candidates[0].UserID)
}

func TestEligibleCandidatesAnyPreference(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	requester := testProfile(1, 30, db.GenderOther, db.LookingForAny)
	require.NoError(t, repo.Create(ctx, requester))

	require.NoError(t, repo.Create(ctx, testProfile(2, 28, db.GenderMale, db.LookingForFemale)))
	require.NoError(t, repo.Create(ctx, testProfile(3, 40, db.GenderFemale, db.LookingForAny)))

	candidates, err := repo.EligibleCandidates(ctx, requester)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vkotliar/matchmaker/internal/db"
)

// ProfileRepository provides data access methods for the Profile model and
// the append-only age-change history attached to it.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Exists reports whether a profile row is present for the given user.
func (r *ProfileRepository) Exists(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// Get loads a profile by id. Returns gorm.ErrRecordNotFound when absent.
func (r *ProfileRepository) Get(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetMany loads profiles for the given ids. Missing ids are silently absent
// from the result.
func (r *ProfileRepository) GetMany(ctx context.Context, userIDs []uint64) ([]db.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error
	return profiles, err
}

// Create inserts a fully populated profile.
//
// Behavior:
//   - The row is written only when no profile with the same user_id exists.
//   - A duplicate registration is reported as gorm.ErrDuplicatedKey and
//     leaves the existing row untouched.
func (r *ProfileRepository) Create(ctx context.Context, profile *db.Profile) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profile)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}
	return nil
}

// UpdateField applies a targeted single-column mutation.
// Returns gorm.ErrRecordNotFound when no profile matches.
func (r *ProfileRepository) UpdateField(ctx context.Context, userID uint64, column string, value interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLocation rewrites city and coordinates together. Coordinates may be
// nil when geocoding degraded to "no coordinates".
func (r *ProfileRepository) UpdateLocation(ctx context.Context, userID uint64, city string, lat, lon *float64) error {
	res := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"city":      city,
			"latitude":  lat,
			"longitude": lon,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateAge mutates the age column and appends the AgeChange record in the
// same transaction: either both are committed or neither is.
func (r *ProfileRepository) UpdateAge(ctx context.Context, userID uint64, oldAge, newAge int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.Profile{}).
			Where("user_id = ?", userID).
			Update("age", newAge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		change := db.AgeChange{
			UserID: userID,
			OldAge: oldAge,
			NewAge: newAge,
		}
		return tx.Create(&change).Error
	})
}

// SetActive toggles profile visibility without deleting anything.
func (r *ProfileRepository) SetActive(ctx context.Context, userID uint64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LastAgeChange returns the most recent age-change record for the user, or
// (nil, nil) when the user never changed their age.
func (r *ProfileRepository) LastAgeChange(ctx context.Context, userID uint64) (*db.AgeChange, error) {
	var change db.AgeChange
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("changed_at DESC").
		First(&change).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &change, nil
}

// CountAgeChangesSince counts age-change records for the user newer than
// the given instant.
func (r *ProfileRepository) CountAgeChangesSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.AgeChange{}).
		Where("user_id = ? AND changed_at > ?", userID, since).
		Count(&count).Error
	return count, err
}

// EligibleCandidates returns every profile satisfying the requester's
// filters and ledger exclusions:
//   - not the requester themselves,
//   - active,
//   - age within the requester's preferred range,
//   - gender matching the requester's preference (or any),
//   - never liked by the requester,
//   - never shown to the requester.
//
// Distance filtering and the random pick happen in the service layer, so
// the whole eligible set is returned.
func (r *ProfileRepository) EligibleCandidates(ctx context.Context, requester *db.Profile) ([]db.Profile, error) {
	query := r.db.WithContext(ctx).
		Where("user_id <> ?", requester.UserID).
		Where("active = ?", true).
		Where("age BETWEEN ? AND ?", requester.MinAge, requester.MaxAge).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes l
				WHERE l.from_user_id = ?
				  AND l.to_user_id = profiles.user_id
			)`, requester.UserID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM profile_views v
				WHERE v.viewer_id = ?
				  AND v.viewed_id = profiles.user_id
			)`, requester.UserID)

	if requester.LookingFor != db.LookingForAny {
		query = query.Where("gender = ?", requester.LookingFor)
	}

	var candidates []db.Profile
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

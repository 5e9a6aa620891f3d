package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vkotliar/matchmaker/internal/db"
	"github.com/vkotliar/matchmaker/internal/utils/pagination"
)

// InteractionRepository provides data access methods for the like/view
// ledger and the match rows derived from it.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// RecordLike inserts the directed like edge from -> to.
//
// Behavior:
//   - The composite PK plus ON CONFLICT DO NOTHING makes the insert
//     idempotent: concurrent or repeated calls for the same pair are no-ops.
//   - Returns whether this call actually inserted the edge.
func (r *InteractionRepository) RecordLike(ctx context.Context, from, to uint64) (bool, error) {
	like := db.Like{FromUserID: from, ToUserID: to}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecordView inserts the directed viewed edge viewer -> viewed.
// Idempotent for the same reasons as RecordLike.
func (r *InteractionRepository) RecordView(ctx context.Context, viewer, viewed uint64) error {
	view := db.ProfileView{ViewerID: viewer, ViewedID: viewed}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error
}

// HasLike checks whether the directed like edge from -> to exists.
func (r *InteractionRepository) HasLike(ctx context.Context, from, to uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", from, to).
		Count(&count).Error
	return count > 0, err
}

// CreateMatch inserts the canonical match row for the unordered pair {a, b}.
//
// Behavior:
//   - The pair is stored as (min, max); the composite PK guarantees at most
//     one row per pair.
//   - ON CONFLICT DO NOTHING absorbs the race where both sides like each
//     other concurrently: exactly one insert wins, the other is a no-op.
//   - Returns whether this call created the row.
func (r *InteractionRepository) CreateMatch(ctx context.Context, a, b uint64) (bool, error) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	match := db.Match{UserLowID: lo, UserHighID: hi}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&match)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountAdmirers returns how many users have a like edge pointing at the
// given user. Used as the DB fallback behind the Redis counter.
func (r *InteractionRepository) CountAdmirers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// MatchEntry is one row of a match listing: the counterpart's id and when
// the match was created.
type MatchEntry struct {
	MateID    uint64
	MatchedAt time.Time
}

const mateExpr = "CASE WHEN user_low_id = ? THEN user_high_id ELSE user_low_id END"

// MatchesFor lists the user's matches, most recent first.
//
// Behavior:
//   - Each row carries the counterpart ("mate") id regardless of which slot
//     of the canonical pair the user occupies.
//   - Ordered by created_at DESC, mate id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *InteractionRepository) MatchesFor(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]MatchEntry, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("matches").
		Select(mateExpr+" AS mate_id, created_at AS matched_at", userID).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("matched_at DESC, mate_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.MateID > 0 && cursor.MatchedUnix > 0 {
		ts := time.UnixMilli(cursor.MatchedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND ("+mateExpr+") < ?))",
			ts, ts, userID, cursor.MateID,
		)
	}

	var entries []MatchEntry
	if err := query.Scan(&entries).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(entries) > limit {
		last := entries[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MateID:      last.MateID,
			MatchedUnix: last.MatchedAt.UnixMilli(),
		})
		nextToken = &token
		entries = entries[:limit]
	}

	return entries, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

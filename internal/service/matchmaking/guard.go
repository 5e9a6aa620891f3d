package matchmaking

import (
	"context"
	"time"
)

// Age-change rate limit: at most one change per 24 hours, at most three
// changes per trailing 30 days. Evaluated in that order.
const (
	ageChangeCooldown     = 24 * time.Hour
	ageChangeWindow       = 30 * 24 * time.Hour
	ageChangeMonthlyLimit = 3
)

// DenialReason explains why the age-change guard refused an edit.
type DenialReason int

const (
	DenialNone DenialReason = iota
	DenialTooFrequent
	DenialMonthlyLimit
)

func (r DenialReason) String() string {
	switch r {
	case DenialTooFrequent:
		return "age can be changed at most once per 24 hours"
	case DenialMonthlyLimit:
		return "age can be changed at most 3 times per 30 days"
	default:
		return ""
	}
}

func (r DenialReason) metricLabel() string {
	switch r {
	case DenialTooFrequent:
		return "too_frequent"
	case DenialMonthlyLimit:
		return "monthly_limit"
	default:
		return "none"
	}
}

// CanChangeAge consults the age-change history and decides whether an age
// edit is currently allowed. Advisory: it has no side effects.
//
// Rules, in order:
//  1. Deny when the most recent change is younger than 24 hours.
//  2. Deny when 3 or more changes fall within the trailing 30 days.
//  3. Allow otherwise.
func (s *Service) CanChangeAge(ctx context.Context, userID uint64) (bool, DenialReason, error) {
	last, err := s.profiles.LastAgeChange(ctx, userID)
	if err != nil {
		return false, DenialNone, err
	}
	if last != nil && time.Since(last.ChangedAt) < ageChangeCooldown {
		return false, DenialTooFrequent, nil
	}

	count, err := s.profiles.CountAgeChangesSince(ctx, userID, time.Now().Add(-ageChangeWindow))
	if err != nil {
		return false, DenialNone, err
	}
	if count >= ageChangeMonthlyLimit {
		return false, DenialMonthlyLimit, nil
	}

	return true, DenialNone, nil
}

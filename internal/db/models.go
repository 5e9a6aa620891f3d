package db

import (
	"time"
)

// Gender and preference values are normalized once at the API boundary;
// the store only ever sees these closed sets.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	LookingForMale   = "male"
	LookingForFemale = "female"
	LookingForAny    = "any"
)

// Profile table.
//
// UserID is supplied by the caller (not auto-incremented): identity comes
// from the front-end collaborator and is opaque to this service.
// A row exists only for fully populated profiles; partial registrations are
// never persisted.
//
// Index idx_candidate(active, gender, age) serves the candidate-selection
// predicate.
type Profile struct {
	UserID     uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name       string `gorm:"size:64;not null"`
	Age        int    `gorm:"not null;index:idx_candidate,priority:3"`
	Gender     string `gorm:"size:16;not null;index:idx_candidate,priority:2"`
	City       string `gorm:"size:128;not null"`
	Latitude   *float64
	Longitude  *float64
	LookingFor string    `gorm:"size:16;not null"`
	MinAge     int       `gorm:"not null"`
	MaxAge     int       `gorm:"not null"`
	Bio        string    `gorm:"size:500"`
	PhotoRef   string    `gorm:"size:255"`
	Active     bool      `gorm:"default:true;index:idx_candidate,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Like is a directed "interested in" edge.
//
// Composite PK (FromUserID, ToUserID) makes inserts idempotent: a duplicate
// like under ON CONFLICT DO NOTHING is a no-op, never an error.
type Like struct {
	FromUserID uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_likes_to_from,priority:2"`
	ToUserID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_likes_to_from,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// ProfileView records that viewer was shown (and decided on) viewed.
// Once present the viewed profile is permanently excluded from the viewer's
// candidate pool; there is no expiry and no undo.
type ProfileView struct {
	ViewerID  uint64    `gorm:"primaryKey;autoIncrement:false"`
	ViewedID  uint64    `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is the derived record of reciprocal likes, stored once per pair in
// canonical order: UserLowID < UserHighID. The composite PK is the backstop
// for the concurrent mutual-like race; inserts use ON CONFLICT DO NOTHING.
type Match struct {
	UserLowID  uint64    `gorm:"primaryKey;autoIncrement:false"`
	UserHighID uint64    `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_matches_created"`
}

// AgeChange is an append-only record of an age edit, consulted by the
// age-change rate limit. Rows are never updated or deleted.
type AgeChange struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index:idx_age_changes_user,priority:1"`
	OldAge    int       `gorm:"not null"`
	NewAge    int       `gorm:"not null"`
	ChangedAt time.Time `gorm:"autoCreateTime;index:idx_age_changes_user,priority:2,sort:desc"`
}

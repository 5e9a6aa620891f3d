package matchmaking

import (
	"time"

	"github.com/vkotliar/matchmaker/internal/db"
)

// RegisterRequest is the completed registration payload handed over by the
// front-end collaborator. By the time it reaches the service every field
// has been collected; validation here is the authoritative range check.
type RegisterRequest struct {
	UserID     uint64 `json:"user_id" validate:"required"`
	Name       string `json:"name" validate:"required,min=2,max=64"`
	Age        int    `json:"age" validate:"required,gte=18,lte=100"`
	Gender     string `json:"gender" validate:"required"`
	City       string `json:"city" validate:"required,min=2,max=128"`
	LookingFor string `json:"looking_for"`
	MinAge     int    `json:"min_age" validate:"required,gte=18,lte=100"`
	MaxAge     int    `json:"max_age" validate:"required,gte=18,lte=100,gtefield=MinAge"`
	Bio        string `json:"bio" validate:"max=500"`
	PhotoRef   string `json:"photo_ref" validate:"max=255"`
}

// EditFieldRequest is a targeted single-field mutation. Value is the raw
// text the collaborator collected; the service parses and validates it
// per field.
type EditFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// VisibilityRequest toggles whether a profile appears in candidate pools.
type VisibilityRequest struct {
	Active bool `json:"active"`
}

// DecisionRequest carries the like/skip target.
type DecisionRequest struct {
	TargetID uint64 `json:"target_id" validate:"required"`
}

// MatchSummary pairs a matched counterpart's profile with the moment the
// match was created.
type MatchSummary struct {
	Profile   db.Profile
	MatchedAt time.Time
}

// ProfileResponse is the JSON shape of a profile on the wire.
type ProfileResponse struct {
	UserID     uint64   `json:"user_id"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	City       string   `json:"city"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	LookingFor string   `json:"looking_for"`
	MinAge     int      `json:"min_age"`
	MaxAge     int      `json:"max_age"`
	Bio        string   `json:"bio,omitempty"`
	PhotoRef   string   `json:"photo_ref,omitempty"`
	Active     bool     `json:"active"`
}

func toProfileResponse(p *db.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:     p.UserID,
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		City:       p.City,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		LookingFor: p.LookingFor,
		MinAge:     p.MinAge,
		MaxAge:     p.MaxAge,
		Bio:        p.Bio,
		PhotoRef:   p.PhotoRef,
		Active:     p.Active,
	}
}

// MatchResponse is one entry of a match listing on the wire.
type MatchResponse struct {
	Profile   ProfileResponse `json:"profile"`
	MatchedAt time.Time       `json:"matched_at"`
}

package matchmaking

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/vkotliar/matchmaker/internal/app"
	"github.com/vkotliar/matchmaker/internal/config"
	"github.com/vkotliar/matchmaker/internal/db"
	"github.com/vkotliar/matchmaker/internal/geo"
	"github.com/vkotliar/matchmaker/internal/metrics"
	"github.com/vkotliar/matchmaker/internal/repository"
)

// Service is the matchmaking engine: profile lifecycle, candidate
// selection, the like/view ledger and mutual-like match resolution.
//
// It holds no authoritative state between calls; durable storage is the
// single source of truth and every operation runs against it through the
// repositories. The geocoding capability and the notifier are injected so
// nothing here depends on ambient singletons.
type Service struct {
	appCtx       *app.AppContext
	cfg          *config.Config
	profiles     *repository.ProfileRepository
	interactions *repository.InteractionRepository
	geocoder     geo.Geocoder
	notifier     Notifier
	validate     *validator.Validate
}

// New creates the matchmaking service with dependencies from AppContext.
// geocoder and notifier may be nil: registration then simply stores no
// coordinates, and matches are created without signalling anyone.
func New(appCtx *app.AppContext, cfg *config.Config, geocoder geo.Geocoder, notifier Notifier) *Service {
	return &Service{
		appCtx:       appCtx,
		cfg:          cfg,
		profiles:     repository.NewProfileRepository(appCtx.DB),
		interactions: repository.NewInteractionRepository(appCtx.DB),
		geocoder:     geocoder,
		notifier:     notifier,
		validate:     validator.New(),
	}
}

// Register persists a new, fully populated profile.
//
// Behavior:
//   - Validates all required fields and the 18..100 age bounds; nothing is
//     written on validation failure.
//   - Normalizes gender/preference into the closed enumerations.
//   - Geocodes the city best-effort: a failed lookup degrades to "no
//     coordinates" and never blocks registration.
//   - A duplicate user_id is reported as ErrAlreadyExists with no partial
//     state written.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*db.Profile, error) {
	s.appCtx.Logger.Debug("Register called", "user", req.UserID)

	if err := s.validate.Struct(req); err != nil {
		return nil, invalidf("invalid registration payload: %s", validationDetail(err))
	}

	profile := &db.Profile{
		UserID:     req.UserID,
		Name:       strings.TrimSpace(req.Name),
		Age:        req.Age,
		Gender:     NormalizeGender(req.Gender),
		City:       strings.TrimSpace(req.City),
		LookingFor: NormalizePreference(req.LookingFor),
		MinAge:     req.MinAge,
		MaxAge:     req.MaxAge,
		Bio:        req.Bio,
		PhotoRef:   req.PhotoRef,
		Active:     true,
	}

	profile.Latitude, profile.Longitude = s.geocodeCity(ctx, profile.City)

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		s.appCtx.Logger.Error("profile create failed", "user", req.UserID, "err", err)
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.appCtx.Logger.Info("profile registered", "user", profile.UserID, "city", profile.City)

	return profile, nil
}

// GetProfile loads a profile by id.
func (s *Service) GetProfile(ctx context.Context, userID uint64) (*db.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return profile, err
}

// EditField applies a targeted single-field mutation. Value arrives as the
// raw text collected by the front end and is parsed per field.
//
// Supported fields: name, age, bio, photo, city. An age edit must pass the
// age-change guard and commits the new age together with its history record
// in one transaction. A city edit re-geocodes best-effort.
func (s *Service) EditField(ctx context.Context, userID uint64, field, value string) error {
	s.appCtx.Logger.Debug("EditField called", "user", userID, "field", field)

	var err error
	switch field {
	case "name":
		name := strings.TrimSpace(value)
		if len(name) < 2 || len(name) > 64 {
			return invalidf("name must be between 2 and 64 characters")
		}
		err = s.profiles.UpdateField(ctx, userID, "name", name)

	case "age":
		err = s.editAge(ctx, userID, value)

	case "bio":
		if len(value) > 500 {
			return invalidf("bio must be at most 500 characters")
		}
		err = s.profiles.UpdateField(ctx, userID, "bio", value)

	case "photo":
		if len(value) > 255 {
			return invalidf("photo reference must be at most 255 characters")
		}
		err = s.profiles.UpdateField(ctx, userID, "photo_ref", value)

	case "city":
		city := strings.TrimSpace(value)
		if len(city) < 2 || len(city) > 128 {
			return invalidf("city must be between 2 and 128 characters")
		}
		lat, lon := s.geocodeCity(ctx, city)
		err = s.profiles.UpdateLocation(ctx, userID, city, lat, lon)

	default:
		return invalidf("unknown field %q", field)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) editAge(ctx context.Context, userID uint64, value string) error {
	newAge, convErr := strconv.Atoi(strings.TrimSpace(value))
	if convErr != nil || newAge < 18 || newAge > 100 {
		return invalidf("age must be an integer between 18 and 100")
	}

	allowed, reason, err := s.CanChangeAge(ctx, userID)
	if err != nil {
		return err
	}
	if !allowed {
		metrics.AgeChangesDeniedTotal.WithLabelValues(reason.metricLabel()).Inc()
		return &RateLimitedError{Reason: reason.String()}
	}

	current, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	return s.profiles.UpdateAge(ctx, userID, current.Age, newAge)
}

// SetVisibility toggles whether the profile appears in candidate pools.
// Matches and ledger state are untouched either way.
func (s *Service) SetVisibility(ctx context.Context, userID uint64, active bool) error {
	err := s.profiles.SetActive(ctx, userID, active)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// NextCandidate picks one unseen, eligible profile for the requester,
// uniformly at random over the whole eligible set.
//
// Behavior:
//   - ErrNotFound when the requester has no profile.
//   - ErrNoCandidates when the eligible set is empty; this is the defined
//     terminal outcome, not a failure.
//   - When the distance filter is enabled and both sides carry coordinates,
//     candidates beyond the configured radius are excluded. Profiles
//     without coordinates are never excluded by distance.
func (s *Service) NextCandidate(ctx context.Context, userID uint64) (*db.Profile, error) {
	s.appCtx.Logger.Debug("NextCandidate called", "user", userID)

	requester, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.EligibleCandidates(ctx, requester)
	if err != nil {
		return nil, err
	}

	if s.cfg.Match.DistanceFilter {
		candidates = s.filterByDistance(requester, candidates)
	}

	if len(candidates) == 0 {
		metrics.SelectionsExhaustedTotal.Inc()
		return nil, ErrNoCandidates
	}

	pick := candidates[rand.Intn(len(candidates))]
	return &pick, nil
}

func (s *Service) filterByDistance(requester *db.Profile, candidates []db.Profile) []db.Profile {
	if requester.Latitude == nil || requester.Longitude == nil {
		return candidates
	}
	origin := geo.Coordinates{Lat: *requester.Latitude, Lon: *requester.Longitude}

	kept := candidates[:0]
	for _, c := range candidates {
		if c.Latitude != nil && c.Longitude != nil {
			d := geo.DistanceKM(origin, geo.Coordinates{Lat: *c.Latitude, Lon: *c.Longitude})
			if d > s.cfg.Match.DistanceRadiusKM {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}

// Like records userID's like of targetID (implicitly marking the target as
// viewed) and resolves a match when the target already liked back.
//
// Behavior:
//   - Both the like and the view insert are idempotent; repeated calls
//     change nothing and produce no duplicate match.
//   - The match row uses the canonical (min, max) pair with an idempotent
//     insert, so the concurrent mutual-like race yields exactly one row.
//   - Both parties are notified best-effort on a newly created match;
//     notification failure never fails the call.
func (s *Service) Like(ctx context.Context, userID, targetID uint64) (bool, error) {
	s.appCtx.Logger.Debug("Like called", "user", userID, "target", targetID)

	if userID == targetID {
		return false, invalidf("cannot like yourself")
	}

	inserted, err := s.interactions.RecordLike(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if err := s.interactions.RecordView(ctx, userID, targetID); err != nil {
		return false, err
	}

	if inserted {
		metrics.DecisionsTotal.WithLabelValues("like").Inc()
		if err := s.appCtx.RedisCache.IncrAdmirerCount(ctx, targetID); err != nil {
			s.appCtx.Logger.Warn("admirer count cache update failed", "target", targetID, "err", err)
		}
	}

	mutual, err := s.interactions.HasLike(ctx, targetID, userID)
	if err != nil {
		return false, err
	}
	if !mutual {
		return false, nil
	}

	created, err := s.interactions.CreateMatch(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if created {
		metrics.MatchesTotal.Inc()
		s.appCtx.Logger.Info("match created", "user", userID, "mate", targetID)
		s.notifyMatch(ctx, userID, targetID)
	}

	return true, nil
}

// Skip records that the target was shown and declined. The target is
// permanently excluded from the requester's future candidate pool.
func (s *Service) Skip(ctx context.Context, userID, targetID uint64) error {
	s.appCtx.Logger.Debug("Skip called", "user", userID, "target", targetID)

	if userID == targetID {
		return invalidf("cannot skip yourself")
	}

	if err := s.interactions.RecordView(ctx, userID, targetID); err != nil {
		return err
	}
	metrics.DecisionsTotal.WithLabelValues("skip").Inc()
	return nil
}

// ListMatches returns the user's matches most recent first, each with the
// counterpart's profile, with cursor-based pagination.
func (s *Service) ListMatches(ctx context.Context, userID uint64, paginationToken *string, limit int) ([]MatchSummary, *string, error) {
	entries, nextToken, err := s.interactions.MatchesFor(ctx, userID, paginationToken, limit)
	if err != nil {
		if strings.Contains(err.Error(), "invalid pagination token") {
			return nil, nil, invalidf("invalid pagination token")
		}
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nextToken, nil
	}

	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MateID)
	}
	mates, err := s.profiles.GetMany(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint64]db.Profile, len(mates))
	for _, m := range mates {
		byID[m.UserID] = m
	}

	summaries := make([]MatchSummary, 0, len(entries))
	for _, e := range entries {
		mate, ok := byID[e.MateID]
		if !ok {
			continue
		}
		summaries = append(summaries, MatchSummary{Profile: mate, MatchedAt: e.MatchedAt})
	}
	return summaries, nextToken, nil
}

// CountAdmirers reports how many users have liked the given user.
// Cache-first: Redis with a 1h TTL, database fallback on miss, cache
// refreshed after the fallback.
func (s *Service) CountAdmirers(ctx context.Context, userID uint64) (int64, error) {
	if n, ok, err := s.appCtx.RedisCache.GetAdmirerCount(ctx, userID); err == nil && ok {
		return n, nil
	} else if err != nil {
		s.appCtx.Logger.Warn("admirer count cache read failed", "user", userID, "err", err)
	}

	count, err := s.interactions.CountAdmirers(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.appCtx.RedisCache.SetAdmirerCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Warn("admirer count cache write failed", "user", userID, "err", err)
	}
	return count, nil
}

func (s *Service) notifyMatch(ctx context.Context, a, b uint64) {
	if s.notifier == nil {
		return
	}
	for _, pair := range [][2]uint64{{a, b}, {b, a}} {
		if err := s.notifier.NotifyMatch(ctx, pair[0], pair[1]); err != nil {
			s.appCtx.Logger.Warn("match notification failed", "user", pair[0], "mate", pair[1], "err", err)
		}
	}
}

func (s *Service) geocodeCity(ctx context.Context, city string) (*float64, *float64) {
	if s.geocoder == nil {
		return nil, nil
	}
	coords, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		s.appCtx.Logger.Warn("geocoding failed, storing no coordinates", "city", city, "err", err)
		return nil, nil
	}
	return &coords.Lat, &coords.Lon
}

// validationDetail flattens validator output to a readable one-liner.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return "invalid fields: " + strings.Join(fields, ", ")
	}
	return err.Error()
}

package matchmaking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultMatchesPageSize = 20
	maxMatchesPageSize     = 100
)

// Handler exposes the service to the chat front end over HTTP/JSON.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	profile, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProfileResponse(profile))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) EditField(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req EditFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.svc.EditField(r.Context(), userID, req.Field, req.Value); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.svc.SetVisibility(r.Context(), userID, req.Active); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) NextCandidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	candidate, err := h.svc.NextCandidate(r.Context(), userID)
	if errors.Is(err, ErrNoCandidates) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"exhausted": true})
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"exhausted": false,
		"profile":   toProfileResponse(candidate),
	})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetID == 0 {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	matched, err := h.svc.Like(r.Context(), userID, req.TargetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"matched": matched})
}

func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetID == 0 {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.svc.Skip(r.Context(), userID, req.TargetID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	limit := defaultMatchesPageSize
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = min(n, maxMatchesPageSize)
		}
	}
	var token *string
	if s := r.URL.Query().Get("page_token"); s != "" {
		token = &s
	}

	summaries, nextToken, err := h.svc.ListMatches(r.Context(), userID, token, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	matches := make([]MatchResponse, 0, len(summaries))
	for _, m := range summaries {
		matches = append(matches, MatchResponse{
			Profile:   toProfileResponse(&m.Profile),
			MatchedAt: m.MatchedAt,
		})
	}

	resp := map[string]interface{}{"matches": matches}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) CountAdmirers(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	count, err := h.svc.CountAdmirers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// --- helpers ---

func pathUserID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "id must be a valid uint64")
		return 0, false
	}
	return id, true
}

// respondServiceError is the single place mapping service errors onto HTTP
// status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	var rerr *RateLimitedError

	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Msg)
	case errors.As(err, &rerr):
		respondError(w, http.StatusTooManyRequests, rerr.Reason)
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrAlreadyExists):
		respondError(w, http.StatusConflict, ErrAlreadyExists.Error())
	default:
		respondError(w, http.StatusInternalServerError, "storage failure")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

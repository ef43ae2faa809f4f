// Package roundhandlers exposes the round settlement operations over HTTP.
package roundhandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	roundservice "github.com/discbaboons/rounds-service/app/modules/round/application"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/httpjson"
	"github.com/discbaboons/rounds-service/internal/middleware"
	"github.com/discbaboons/rounds-service/internal/observability/attr"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Handlers serves the round settlement HTTP surface.
type Handlers struct {
	service roundservice.Service
	logger  *slog.Logger
}

// NewHandlers creates round handlers.
func NewHandlers(service roundservice.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, logger: logger}
}

// requestIdentity pulls the round ID from the URL and the user ID from the
// request context.
func requestIdentity(r *http.Request) (sharedtypes.RoundID, sharedtypes.UserID, error) {
	var roundID sharedtypes.RoundID
	if err := roundID.UnmarshalText([]byte(chi.URLParam(r, "roundId"))); err != nil {
		return roundID, 0, apperrors.Wrap(apperrors.KindValidation, "invalid round ID", err)
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return roundID, 0, apperrors.New(apperrors.KindAuthorization, "missing user identity")
	}
	return roundID, userID, nil
}

// GetLeaderboard handles GET /api/rounds/{roundId}/leaderboard.
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	leaderboard, err := h.service.GetLeaderboard(r.Context(), roundID, userID)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, leaderboard)
}

// GetSkins handles GET /api/rounds/{roundId}/skins.
func (h *Handlers) GetSkins(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	skins, err := h.service.CalculateSkins(r.Context(), roundID, userID)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, skins)
}

// GetScorecard handles GET /api/rounds/{roundId}/scores.
func (h *Handlers) GetScorecard(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	card, err := h.service.GetScorecard(r.Context(), roundID, userID)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, card)
}

type setParRequest struct {
	Par int `json:"par"`
}

// SetPar handles PUT /api/rounds/{roundId}/pars/{holeNumber}.
func (h *Handlers) SetPar(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	holeNumber, err := strconv.Atoi(chi.URLParam(r, "holeNumber"))
	if err != nil {
		httpjson.RespondError(w, apperrors.Wrap(apperrors.KindValidation, "invalid hole number", err))
		return
	}
	var req setParRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.RespondError(w, err)
		return
	}
	if err := h.service.SetPar(r.Context(), roundID, userID, holeNumber, req.Par); err != nil {
		httpjson.RespondError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Par set",
		attr.ExtractCorrelationID(r.Context()),
		attr.RoundID("round_id", roundID),
		attr.Int("hole_number", holeNumber),
		attr.Int("par", req.Par),
	)
	httpjson.Respond(w, http.StatusNoContent, nil)
}

type submitScoresRequest struct {
	Scores []roundservice.ScoreSubmission `json:"scores"`
}

// SubmitScores handles POST /api/rounds/{roundId}/scores.
func (h *Handlers) SubmitScores(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	var req submitScoresRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.RespondError(w, err)
		return
	}
	if err := h.service.SubmitScores(r.Context(), roundID, userID, req.Scores); err != nil {
		httpjson.RespondError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Scores submitted",
		attr.ExtractCorrelationID(r.Context()),
		attr.RoundID("round_id", roundID),
		attr.Int("score_count", len(req.Scores)),
	)
	httpjson.Respond(w, http.StatusNoContent, nil)
}

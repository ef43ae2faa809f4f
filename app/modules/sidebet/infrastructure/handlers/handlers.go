// Package sidebethandlers exposes the side-bet operations over HTTP.
package sidebethandlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	sidebetservice "github.com/discbaboons/rounds-service/app/modules/sidebet/application"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/httpjson"
	"github.com/discbaboons/rounds-service/internal/middleware"
	"github.com/discbaboons/rounds-service/internal/observability/attr"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Handlers serves the side-bet HTTP surface.
type Handlers struct {
	service sidebetservice.Service
	logger  *slog.Logger
}

// NewHandlers creates side-bet handlers.
func NewHandlers(service sidebetservice.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, logger: logger}
}

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

func betIDParam(r *http.Request) (sharedtypes.BetID, error) {
	var betID sharedtypes.BetID
	if err := betID.UnmarshalText([]byte(chi.URLParam(r, "betId"))); err != nil {
		return betID, apperrors.Wrap(apperrors.KindValidation, "invalid bet ID", err)
	}
	return betID, nil
}

// List handles GET /api/rounds/{roundId}/side-bets.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	bets, err := h.service.List(r.Context(), roundID, userID)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, bets)
}

// Get handles GET /api/rounds/{roundId}/side-bets/{betId}.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	betID, err := betIDParam(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	bet, err := h.service.Get(r.Context(), roundID, betID, userID)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, bet)
}

// Create handles POST /api/rounds/{roundId}/side-bets.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	var input sidebetservice.CreateSideBetInput
	if err := httpjson.Decode(r, &input); err != nil {
		httpjson.RespondError(w, err)
		return
	}
	bet, err := h.service.Create(r.Context(), roundID, userID, input)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Side bet created",
		attr.ExtractCorrelationID(r.Context()),
		attr.RoundID("round_id", roundID),
		attr.BetID("bet_id", bet.BetID),
	)
	httpjson.Respond(w, http.StatusCreated, bet)
}

// updateRequest keeps winnerId tri-state: absent leaves the winner alone,
// null clears it, a player ID declares one.
type updateRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	WinnerID    json.RawMessage `json:"winnerId"`
}

var jsonNull = []byte("null")

// Update handles PUT /api/rounds/{roundId}/side-bets/{betId}.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	betID, err := betIDParam(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.RespondError(w, err)
		return
	}

	input := sidebetservice.UpdateSideBetInput{
		Name:        req.Name,
		Description: req.Description,
	}
	switch {
	case len(req.WinnerID) == 0:
	case bytes.Equal(bytes.TrimSpace(req.WinnerID), jsonNull):
		input.ClearWinner = true
	default:
		var winnerID sharedtypes.PlayerID
		if err := json.Unmarshal(req.WinnerID, &winnerID); err != nil {
			httpjson.RespondError(w, apperrors.Wrap(apperrors.KindValidation, "invalid winner ID", err))
			return
		}
		input.WinnerID = &winnerID
	}

	bet, err := h.service.Update(r.Context(), roundID, betID, userID, input)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, bet)
}

// Cancel handles DELETE /api/rounds/{roundId}/side-bets/{betId}.
func (h *Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	roundID, userID, err := requestIdentity(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	betID, err := betIDParam(r)
	if err != nil {
		httpjson.RespondError(w, err)
		return
	}
	if err := h.service.Cancel(r.Context(), roundID, betID, userID); err != nil {
		httpjson.RespondError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Side bet cancelled",
		attr.ExtractCorrelationID(r.Context()),
		attr.RoundID("round_id", roundID),
		attr.BetID("bet_id", betID),
	)
	httpjson.Respond(w, http.StatusNoContent, nil)
}

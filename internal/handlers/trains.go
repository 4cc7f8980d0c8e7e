package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/cta"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/finder"
	"github.com/PrakshaliShah/cta-silent-tracker/internal/geo"
)

// PositionsFetcher fetches raw train positions for a route from the upstream feed.
type PositionsFetcher interface {
	Positions(ctx context.Context, route string) ([]cta.Train, error)
}

// TrainHandler handles closest-train lookups.
type TrainHandler struct {
	feed PositionsFetcher
	opts finder.Options
}

// NewTrainHandler creates a new handler with the given upstream feed and
// ranking policy.
func NewTrainHandler(feed PositionsFetcher, opts finder.Options) *TrainHandler {
	return &TrainHandler{feed: feed, opts: opts}
}

// FindTrain handles GET /find-train/{route}?lat=&lon=
// Returns the ranked train list for the route with the closest live train
// relative to the caller's position.
func (h *TrainHandler) FindTrain(w http.ResponseWriter, r *http.Request) {
	route := chi.URLParam(r, "route")

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "lat query parameter must be a number",
		})
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "lon query parameter must be a number",
		})
		return
	}

	trains, err := h.feed.Positions(r.Context(), route)
	if err != nil {
		var apiErr *cta.APIError
		switch {
		case errors.As(err, &apiErr):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "CTA API error",
				Details: map[string]interface{}{
					"detail": apiErr.Name,
				},
			})
		case errors.Is(err, cta.ErrNoData):
			// Missing route/train keys are not an HTTP failure; the caller
			// just gets nothing to stand next to.
			writeJSON(w, http.StatusOK, finder.Result{
				Found:   false,
				Trains:  []finder.RankedTrain{},
				Message: "No position data reported for route " + route + ".",
			})
		default:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to reach the CTA feed",
				Details: map[string]interface{}{
					"internal": err.Error(),
				},
			})
		}
		return
	}

	result, err := finder.Rank(trains, geo.Coordinate{Lat: lat, Lon: lon}, h.opts)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: "CTA feed returned malformed position data",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

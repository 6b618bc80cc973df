package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"

	"grocery-route-service/internal/api/dto"
	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
	"grocery-route-service/internal/services"
)

const maxIngredients = 50

// OptimizeHandler plans the cheapest shopping trip for a basket.
type OptimizeHandler struct {
	Repo    ports.StoreRepository
	Prices  ports.PriceSource
	Routing ports.RoutingSource

	// Geocoder resolves home_address. Nil disables address input.
	Geocoder ports.Geocoder

	DefaultHourlyRate  float64
	MissingItemPenalty *float64
	MaxStores          int
	ServiceArea        domain.Bounds
	Graph              services.GraphOptions
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	if len(ingredients) == 0 {
		writeError(w, r, http.StatusBadRequest, "ingredients is required")
		return
	}
	if len(ingredients) > maxIngredients {
		writeError(w, r, http.StatusBadRequest, "too many ingredients")
		return
	}

	rate := h.DefaultHourlyRate
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	}
	if math.IsNaN(rate) || rate < 0 {
		writeError(w, r, http.StatusBadRequest, "hourly_rate must be non-negative")
		return
	}

	maxStores := req.MaxStores
	if maxStores == 0 {
		maxStores = h.MaxStores
	}
	if maxStores < 0 || maxStores > 10 {
		writeError(w, r, http.StatusBadRequest, "max_stores must be between 1 and 10")
		return
	}

	home, ok := h.resolveHome(w, r, req)
	if !ok {
		return
	}

	penalty := h.MissingItemPenalty
	if req.MissingItemPenalty != nil {
		penalty = req.MissingItemPenalty
	}

	svcReq := services.PlanShoppingRequest{
		Shopping: domain.ShoppingRequest{
			Ingredients:     ingredients,
			Home:            home,
			HourlyTimeValue: rate,
		},
		StoreNames:         req.StoreNames,
		ServiceArea:        h.ServiceArea,
		MaxStores:          maxStores,
		MissingItemPenalty: penalty,
		Graph:              h.Graph,
	}

	plan, err := services.PlanShopping(r.Context(), svcReq, h.Repo, h.Prices, h.Routing)
	if err != nil {
		h.writePlanError(w, r, plan, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOptimizeResponse(plan.Result, plan.Graph))
}

func (h *OptimizeHandler) resolveHome(w http.ResponseWriter, r *http.Request, req dto.OptimizeRequest) (domain.GeoCoordinate, bool) {
	if req.Home != nil {
		return *req.Home, true
	}

	addr := strings.TrimSpace(req.HomeAddress)
	if addr == "" {
		writeError(w, r, http.StatusBadRequest, "home or home_address is required")
		return domain.GeoCoordinate{}, false
	}
	if h.Geocoder == nil {
		writeError(w, r, http.StatusBadRequest, "home_address is not supported, send home coordinates")
		return domain.GeoCoordinate{}, false
	}

	coord, err := h.Geocoder.Geocode(r.Context(), addr)
	if err != nil {
		logger := obs.Component("http")
		logger.Warn().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("geocode home failed")
		writeError(w, r, http.StatusBadGateway, "could not resolve home_address")
		return domain.GeoCoordinate{}, false
	}
	return coord, true
}

func (h *OptimizeHandler) writePlanError(w http.ResponseWriter, r *http.Request, plan *services.PlanResult, err error) {
	var noRoute *services.NoViableRouteError
	switch {
	case errors.As(err, &noRoute):
		res := dto.NoViableRouteResponse{
			Error:               "no viable route",
			TotalRoutesAnalyzed: len(noRoute.Candidates),
			Candidates:          dto.NewCandidateSummaries(noRoute.Candidates),
		}
		if plan != nil && plan.Graph != nil {
			res.Failures = dto.NewFailures(plan.Graph.Failures)
		}
		writeJSON(w, r, http.StatusUnprocessableEntity, res)
	case domain.IsInputError(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logger := obs.Component("http")
		logger.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("plan shopping failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

package handlers

import (
	"net/http"

	"grocery-route-service/internal/api/dto"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// StoreHandler exposes read-only store retrieval endpoints.
type StoreHandler struct {
	Repo ports.StoreRepository
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	stores, err := h.Repo.ListStores(r.Context())
	if err != nil {
		logger := obs.Component("http")
		logger.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("list stores failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStoresResponse{
		Stores: make([]dto.StoreResponse, 0, len(stores)),
	}
	for _, s := range stores {
		res.Stores = append(res.Stores, dto.StoreResponse{
			Name:    s.Name,
			Address: s.Address,
			Lat:     s.Location.Lat,
			Lon:     s.Location.Lon,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

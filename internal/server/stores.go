package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storelocator/internal/geo"
	"storelocator/internal/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	defaultRadiusKm  = 100.0
)

type NearbyResponse struct {
	Stores []store.Nearby `json:"stores"`
	Total  int            `json:"total"`
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req store.Store
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	created, err := s.stores.Create(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.Info("store created", zap.String("store_id", created.StoreID), zap.String("state", created.State))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}
	page, err := s.stores.List(r.Context(), limit, offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if id == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "storeID required")
		return
	}
	st, err := s.stores.FindByID(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStoresByState(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "state")))
	if len(state) != 2 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "state must be a 2-letter code")
		return
	}
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}
	page, err := s.stores.FindByState(r.Context(), state, limit, offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleStoresByPostalPrefix(w http.ResponseWriter, r *http.Request) {
	prefix := store.NormalizePostalCode(chi.URLParam(r, "prefix"))
	if prefix == "" || len(prefix) > 8 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "prefix must contain 1 to 8 digits")
		return
	}
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}
	page, err := s.stores.FindByPostalPrefix(r.Context(), prefix, limit, offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleNearbyStores(w http.ResponseWriter, r *http.Request) {
	lat, hasLat, errLat := queryFloat(r, "lat")
	lng, hasLng, errLng := queryFloat(r, "lng")
	if !hasLat || !hasLng || errLat != nil || errLng != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "lat and lng are required numbers")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "lat/lng out of range")
		return
	}
	radius, hasRadius, err := queryFloat(r, "radius_km")
	if !hasRadius {
		radius = defaultRadiusKm
	}
	if err != nil || radius <= 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "radius_km must be a positive number")
		return
	}

	found, err := store.FindNear(r.Context(), s.stores, geo.Point{Lat: lat, Lng: lng}, radius)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NearbyResponse{Stores: found, Total: len(found)})
}

// pageParams reads limit/offset, writing a 400 itself when they are invalid.
func pageParams(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit, ok = queryInt(r, "limit", defaultPageLimit)
	if !ok || limit == 0 || limit > maxPageLimit {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "limit must be between 1 and 100")
		return 0, 0, false
	}
	offset, ok = queryInt(r, "offset", 0)
	if !ok {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer")
		return 0, 0, false
	}
	return limit, offset, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalid):
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, store.ErrConflict):
		writeErrorJSON(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "resource_not_found", "store not found")
	default:
		s.log.Error("store catalog error", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"naimuBack/internal/geo"
)

// LocationHandler keeps the professional geo index current.
type LocationHandler struct {
	Locator *geo.ProLocator
}

type proLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
}

// UpdateLocation stores the caller's coordinates in the city geo set.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var loc proLocation
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if loc.City == "" {
		http.Error(w, "City is required", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Locator.UpdatePro(r.Context(), userID, loc.Longitude, loc.Latitude, loc.City); err != nil {
		http.Error(w, "Failed to update location", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// RemoveLocation drops the caller from the city geo set.
func (h *LocationHandler) RemoveLocation(w http.ResponseWriter, r *http.Request) {
	var loc proLocation
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil || loc.City == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Locator.RemovePro(r.Context(), userID, loc.City); err != nil {
		http.Error(w, "Failed to remove location", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

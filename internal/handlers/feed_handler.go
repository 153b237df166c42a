package handlers

import (
	"encoding/json"
	"errors"
	"naimuBack/internal/models"
	service "naimuBack/internal/services"
	"net/http"
	"strconv"
	"strings"
)

type FeedHandler struct {
	FeedService *service.FeedService
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(int)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	req := models.FeedRequest{ProID: userID}
	q := r.URL.Query()

	if v := q.Get("categories"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || id <= 0 {
				http.Error(w, "Invalid categories", http.StatusBadRequest)
				return
			}
			req.CategoryIDs = append(req.CategoryIDs, id)
		}
	}
	req.City = q.Get("city")
	if v := q.Get("max_distance_km"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d <= 0 {
			http.Error(w, "Invalid max_distance_km", http.StatusBadRequest)
			return
		}
		req.MaxDistanceKM = d
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		req.Limit = n
	}

	items, err := h.FeedService.BuildFeed(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrProNotFound) {
			http.Error(w, "Professional profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to build feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

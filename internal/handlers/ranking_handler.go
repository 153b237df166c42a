package handlers

import (
	"encoding/json"
	"errors"
	"naimuBack/internal/models"
	service "naimuBack/internal/services"
	"net/http"
	"strconv"
)

type RankingHandler struct {
	RankingService *service.RankingService
}

func (h *RankingHandler) GetRankedPros(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":task_id")
	taskID, err := strconv.Atoi(idParam)
	if err != nil || taskID <= 0 {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	minScore := -1
	if v := r.URL.Query().Get("min_score"); v != "" {
		minScore, err = strconv.Atoi(v)
		if err != nil || minScore < 0 || minScore > 100 {
			http.Error(w, "Invalid min_score", http.StatusBadRequest)
			return
		}
	}
	limit := -1
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	entries, err := h.RankingService.RankForTask(r.Context(), taskID, userID, minScore, limit)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTaskNotFound):
			http.Error(w, "Task not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Failed to rank professionals", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

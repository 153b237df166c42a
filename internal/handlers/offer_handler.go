package handlers

import (
	"encoding/json"
	"errors"
	"naimuBack/internal/models"
	service "naimuBack/internal/services"
	"net/http"
	"strconv"
)

type OfferHandler struct {
	OfferService *service.OfferService
}

func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var offer models.Offer
	err := json.NewDecoder(r.Body).Decode(&offer)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)
	offer.ProID = userID

	createdOffer, err := h.OfferService.CreateOffer(r.Context(), offer)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTaskNotFound):
			http.Error(w, "Task not found", http.StatusNotFound)
		case errors.Is(err, models.ErrTaskNotBiddable):
			http.Error(w, "Task is not open for offers", http.StatusConflict)
		case errors.Is(err, models.ErrDuplicateOffer):
			http.Error(w, "You already have a live offer on this task", http.StatusConflict)
		default:
			http.Error(w, "Failed to create offer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createdOffer)
}

func (h *OfferHandler) GetOffersByTaskID(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":task_id")
	taskID, err := strconv.Atoi(idParam)
	if err != nil || taskID <= 0 {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	offers, err := h.OfferService.GetOffersByTaskID(r.Context(), taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTaskNotFound):
			http.Error(w, "Task not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Failed to retrieve offers", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offers)
}

func (h *OfferHandler) ViewOffer(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid offer ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	offer, err := h.OfferService.ViewOffer(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOfferNotFound), errors.Is(err, models.ErrTaskNotFound):
			http.Error(w, "Offer not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Failed to open offer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offer)
}

func (h *OfferHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid offer ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	result, err := h.OfferService.AcceptOffer(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOfferNotFound), errors.Is(err, models.ErrTaskNotFound):
			http.Error(w, "Offer not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrTaskNotAcceptingOffers):
			http.Error(w, "Task already has an accepted offer", http.StatusConflict)
		case errors.Is(err, models.ErrOfferNotAcceptable):
			http.Error(w, "Offer can no longer be accepted", http.StatusConflict)
		default:
			http.Error(w, "Failed to accept offer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *OfferHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid offer ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	offer, err := h.OfferService.RejectOffer(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOfferNotFound), errors.Is(err, models.ErrTaskNotFound):
			http.Error(w, "Offer not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrInvalidState):
			http.Error(w, "Offer can no longer be rejected", http.StatusConflict)
		default:
			http.Error(w, "Failed to reject offer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offer)
}

func (h *OfferHandler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid offer ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	offer, err := h.OfferService.WithdrawOffer(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOfferNotFound):
			http.Error(w, "Offer not found", http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, models.ErrInvalidState):
			http.Error(w, "Accepted offers cannot be withdrawn", http.StatusConflict)
		default:
			http.Error(w, "Failed to withdraw offer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offer)
}

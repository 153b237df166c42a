package handlers

import (
	"encoding/json"
	"errors"
	"naimuBack/internal/models"
	repository "naimuBack/internal/repositories"
	service "naimuBack/internal/services"
	"net/http"
	"strconv"
)

type ChatHandler struct {
	ChatRepo *repository.ChatRepository
	Pusher   service.MessagePusher
}

func (h *ChatHandler) GetMyChats(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(int)
	if userID <= 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.ChatRepo.GetChatsByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve chats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chats)
}

func (h *ChatHandler) GetChatByID(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	chat, err := h.ChatRepo.GetChatByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve chat", http.StatusInternalServerError)
		return
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chat)
}

func (h *ChatHandler) GetMessagesByChatID(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	chat, err := h.ChatRepo.GetChatByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve chat", http.StatusInternalServerError)
		return
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	messages, err := h.ChatRepo.GetMessagesByChatID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to retrieve messages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	userID, _ := r.Context().Value("user_id").(int)

	chat, err := h.ChatRepo.GetChatByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve chat", http.StatusInternalServerError)
		return
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	receiverID := chat.User1ID
	if receiverID == userID {
		receiverID = chat.User2ID
	}

	message, err := h.ChatRepo.CreateMessage(r.Context(), models.Message{
		ChatID:     id,
		SenderID:   userID,
		ReceiverID: receiverID,
		Text:       req.Text,
	})
	if err != nil {
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}
	if h.Pusher != nil {
		h.Pusher.PushMessage(receiverID, message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}

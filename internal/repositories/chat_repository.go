package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"naimuBack/internal/models"
)

type ChatRepository struct {
	DB *sql.DB
}

func (r *ChatRepository) GetChatByID(ctx context.Context, id int) (models.Chat, error) {
	var chat models.Chat
	err := r.DB.QueryRowContext(ctx, `
                SELECT id, offer_id, user1_id, user2_id, last_activity_at, created_at
                FROM chats WHERE id = ?`, id).
		Scan(&chat.ID, &chat.OfferID, &chat.User1ID, &chat.User2ID, &chat.LastActivityAt, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Chat{}, models.ErrChatNotFound
		}
		return models.Chat{}, err
	}
	return chat, nil
}

func (r *ChatRepository) GetChatByOfferID(ctx context.Context, offerID int) (models.Chat, error) {
	var chat models.Chat
	err := r.DB.QueryRowContext(ctx, `
                SELECT id, offer_id, user1_id, user2_id, last_activity_at, created_at
                FROM chats WHERE offer_id = ?`, offerID).
		Scan(&chat.ID, &chat.OfferID, &chat.User1ID, &chat.User2ID, &chat.LastActivityAt, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Chat{}, models.ErrChatNotFound
		}
		return models.Chat{}, err
	}
	return chat, nil
}

func (r *ChatRepository) GetChatsByUserID(ctx context.Context, userID int) ([]models.Chat, error) {
	rows, err := r.DB.QueryContext(ctx, `
                SELECT id, offer_id, user1_id, user2_id, last_activity_at, created_at
                FROM chats
                WHERE user1_id = ? OR user2_id = ?
                ORDER BY last_activity_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.OfferID, &chat.User1ID, &chat.User2ID, &chat.LastActivityAt, &chat.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// CreateMessage stores a user message and bumps the chat's activity stamp.
func (r *ChatRepository) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	_, err := r.DB.ExecContext(ctx, `
                INSERT INTO messages (id, chat_id, sender_id, receiver_id, text, is_system, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ID, message.ChatID, message.SenderID, message.ReceiverID, message.Text, message.System, message.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	if _, err := r.DB.ExecContext(ctx, `UPDATE chats SET last_activity_at = ? WHERE id = ?`, message.CreatedAt, message.ChatID); err != nil {
		return models.Message{}, err
	}
	return message, nil
}

// AddSystemMessage appends a platform-authored message to a chat during the
// acceptance fan-out.
func (r *ChatRepository) AddSystemMessage(ctx context.Context, chatID, receiverID int, text string) (models.Message, error) {
	return r.CreateMessage(ctx, models.Message{
		ChatID:     chatID,
		SenderID:   0,
		ReceiverID: receiverID,
		Text:       text,
		System:     true,
	})
}

func (r *ChatRepository) GetMessagesByChatID(ctx context.Context, chatID int) ([]models.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
                SELECT id, chat_id, sender_id, receiver_id, text, is_system, created_at
                FROM messages
                WHERE chat_id = ?
                ORDER BY created_at`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.ReceiverID, &m.Text, &m.System, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

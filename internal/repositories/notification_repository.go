package repositories

import (
	"context"
	"database/sql"
	"time"

	"naimuBack/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx, `
                INSERT INTO notifications (user_id, kind, task_id, offer_id, title, body, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Kind, n.TaskID, n.OfferID, n.Title, n.Body, now)
	if err != nil {
		return models.Notification{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = int(id)
	n.CreatedAt = now
	return n, nil
}

func (r *NotificationRepository) GetNotificationsByUserID(ctx context.Context, userID int) ([]models.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
                SELECT id, user_id, kind, task_id, offer_id, title, body, created_at
                FROM notifications
                WHERE user_id = ?
                ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.TaskID, &n.OfferID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) InsertToken(ctx context.Context, userID int, token string) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO notify_tokens (user_id, token) VALUES (?, ?)`, userID, token)
	return err
}

func (r *NotificationRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notify_tokens WHERE token = ?`, token)
	return err
}

// TokensByUserID satisfies notify.TokenSource.
func (r *NotificationRepository) TokensByUserID(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM notify_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

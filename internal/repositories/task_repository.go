package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"naimuBack/internal/models"
)

type TaskRepository struct {
	DB *sql.DB
}

const taskSelect = `
        SELECT id, user_id, category_id, title, description, city, postal_code,
               latitude, longitude, budget_min, budget_max, urgency, status,
               top_tier, top_start_at, top_end_at, accepted_offer_id,
               created_at, published_at
        FROM tasks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Description, &t.City, &t.PostalCode,
		&t.Latitude, &t.Longitude, &t.BudgetMin, &t.BudgetMax, &t.Urgency, &t.Status,
		&t.TopTier, &t.TopStartAt, &t.TopEndAt, &t.AcceptedOfferID,
		&t.CreatedAt, &t.PublishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	now := time.Now()
	if task.Urgency == "" {
		task.Urgency = models.UrgencyFlexible
	}
	res, err := r.DB.ExecContext(ctx, `
                INSERT INTO tasks (user_id, category_id, title, description, city, postal_code,
                                   latitude, longitude, budget_min, budget_max, urgency, status, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID, task.CategoryID, task.Title, task.Description, task.City, task.PostalCode,
		task.Latitude, task.Longitude, task.BudgetMin, task.BudgetMax, task.Urgency, models.TaskStatusDraft, now)
	if err != nil {
		return models.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}
	task.ID = int(id)
	task.Status = models.TaskStatusDraft
	task.CreatedAt = now
	return task, nil
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, id int) (models.Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx, taskSelect+` WHERE id = ?`, id))
}

func (r *TaskRepository) GetTasksByUserID(ctx context.Context, userID int) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, taskSelect+` WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Publish moves a draft to published and stamps published_at. The CAS guard
// keeps a double publish from re-stamping.
func (r *TaskRepository) Publish(ctx context.Context, id int) (time.Time, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx, `UPDATE tasks SET status = ?, published_at = ? WHERE id = ? AND status = ?`,
		models.TaskStatusPublished, now, id, models.TaskStatusDraft)
	if err != nil {
		return time.Time{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if rows == 0 {
		return time.Time{}, models.ErrInvalidState
	}
	return now, nil
}

// ClearExpiredTop drops top placement from tasks whose paid window ended.
func (r *TaskRepository) ClearExpiredTop(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE tasks
        SET top_tier = '', top_start_at = NULL, top_end_at = NULL
        WHERE top_end_at IS NOT NULL AND top_end_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelOrDelete hard-deletes a task that never received offers and
// soft-cancels one that did, keeping offers and chats for history. Returns
// whether the task was deleted.
func (r *TaskRepository) CancelOrDelete(ctx context.Context, id int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM tasks WHERE id = ? FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrTaskNotFound
		}
		return false, err
	}
	if status == models.TaskStatusCompleted || status == models.TaskStatusReviewed || status == models.TaskStatusCancelled {
		err = models.ErrInvalidState
		return false, err
	}

	var offerCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers WHERE task_id = ?`, id).Scan(&offerCount); err != nil {
		return false, err
	}

	deleted := offerCount == 0
	if deleted {
		if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return false, err
		}
	} else {
		// accepted_offer_id only carries meaning on accepted and later
		// statuses, so the cancel clears it.
		if _, err = tx.ExecContext(ctx, `UPDATE tasks SET status = ?, accepted_offer_id = NULL WHERE id = ?`,
			models.TaskStatusCancelled, id); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return deleted, nil
}

// FeedCandidates fetches open tasks with their live offer counts for feed
// assembly. Interest counts only include offers still in play.
func (r *TaskRepository) FeedCandidates(ctx context.Context, categoryIDs []int, city string) ([]models.FeedCandidate, error) {
	query := `
                SELECT t.id, t.user_id, t.category_id, t.title, t.description, t.city, t.postal_code,
                       t.latitude, t.longitude, t.budget_min, t.budget_max, t.urgency, t.status,
                       t.top_tier, t.top_start_at, t.top_end_at, t.accepted_offer_id,
                       t.created_at, t.published_at,
                       COUNT(o.id)
                FROM tasks t
                LEFT JOIN offers o ON o.task_id = t.id AND o.status IN (?, ?)
                WHERE t.status IN (?, ?)`
	args := []any{models.OfferStatusPending, models.OfferStatusViewed, models.TaskStatusPublished, models.TaskStatusInConversation}

	if len(categoryIDs) > 0 {
		query += ` AND t.category_id IN (?` + strings.Repeat(", ?", len(categoryIDs)-1) + `)`
		for _, id := range categoryIDs {
			args = append(args, id)
		}
	}
	if city != "" {
		query += ` AND t.city = ?`
		args = append(args, city)
	}
	query += ` GROUP BY t.id ORDER BY t.published_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.FeedCandidate
	for rows.Next() {
		var c models.FeedCandidate
		t := &c.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Description, &t.City, &t.PostalCode,
			&t.Latitude, &t.Longitude, &t.BudgetMin, &t.BudgetMax, &t.Urgency, &t.Status,
			&t.TopTier, &t.TopStartAt, &t.TopEndAt, &t.AcceptedOfferID,
			&t.CreatedAt, &t.PublishedAt, &c.InterestCount); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

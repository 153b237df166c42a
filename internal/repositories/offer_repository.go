package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"naimuBack/internal/fsm"
	"naimuBack/internal/models"
)

type OfferRepository struct {
	DB *sql.DB
}

// CreateOfferWithChat inserts an offer and its companion chat as one
// transaction. The parent task row is locked first so the biddable check,
// the duplicate check and the first-offer status flip cannot race with a
// concurrent accept.
func (r *OfferRepository) CreateOfferWithChat(ctx context.Context, offer models.Offer) (models.Offer, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Offer{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var taskStatus string
	var ownerID int
	err = tx.QueryRowContext(ctx, `SELECT status, user_id FROM tasks WHERE id = ? FOR UPDATE`, offer.TaskID).Scan(&taskStatus, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrTaskNotFound
		}
		return models.Offer{}, err
	}
	if !fsm.TaskBiddable(taskStatus) {
		err = models.ErrTaskNotBiddable
		return models.Offer{}, err
	}

	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers WHERE task_id = ? AND pro_id = ?`, offer.TaskID, offer.ProID).Scan(&count); err != nil {
		return models.Offer{}, err
	}
	if count > 0 {
		err = models.ErrDuplicateOffer
		return models.Offer{}, err
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
                INSERT INTO offers (task_id, pro_id, amount, amount_kind, message, status, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?)`,
		offer.TaskID, offer.ProID, offer.Amount, offer.AmountKind, offer.Message, models.OfferStatusPending, now)
	if err != nil {
		return models.Offer{}, err
	}
	offerID, err := res.LastInsertId()
	if err != nil {
		return models.Offer{}, err
	}

	res, err = tx.ExecContext(ctx, `
                INSERT INTO chats (offer_id, user1_id, user2_id, last_activity_at, created_at)
                VALUES (?, ?, ?, ?, ?)`,
		offerID, ownerID, offer.ProID, now, now)
	if err != nil {
		return models.Offer{}, err
	}
	chatID, err := res.LastInsertId()
	if err != nil {
		return models.Offer{}, err
	}

	// The first offer moves the task into conversation.
	if taskStatus == models.TaskStatusPublished {
		if _, err = tx.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ? AND status = ?`,
			models.TaskStatusInConversation, offer.TaskID, models.TaskStatusPublished); err != nil {
			return models.Offer{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Offer{}, err
	}

	offer.ID = int(offerID)
	offer.ChatID = int(chatID)
	offer.Status = models.OfferStatusPending
	offer.CreatedAt = now
	return offer, nil
}

func (r *OfferRepository) GetOfferByID(ctx context.Context, id int) (models.Offer, error) {
	var o models.Offer
	err := r.DB.QueryRowContext(ctx, `
                SELECT o.id, o.task_id, o.pro_id, o.amount, o.amount_kind, o.message, o.status, o.created_at, o.viewed_at, COALESCE(c.id, 0)
                FROM offers o
                LEFT JOIN chats c ON c.offer_id = o.id
                WHERE o.id = ?`, id).
		Scan(&o.ID, &o.TaskID, &o.ProID, &o.Amount, &o.AmountKind, &o.Message, &o.Status, &o.CreatedAt, &o.ViewedAt, &o.ChatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Offer{}, models.ErrOfferNotFound
		}
		return models.Offer{}, err
	}
	return o, nil
}

func (r *OfferRepository) GetOffersByTaskID(ctx context.Context, taskID int) ([]models.Offer, error) {
	rows, err := r.DB.QueryContext(ctx, `
                SELECT o.id, o.task_id, o.pro_id, o.amount, o.amount_kind, o.message, o.status, o.created_at, o.viewed_at, COALESCE(c.id, 0)
                FROM offers o
                LEFT JOIN chats c ON c.offer_id = o.id
                WHERE o.task_id = ?
                ORDER BY o.created_at`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(&o.ID, &o.TaskID, &o.ProID, &o.Amount, &o.AmountKind, &o.Message, &o.Status, &o.CreatedAt, &o.ViewedAt, &o.ChatID); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// MarkViewed stamps viewed_at exactly once. A no-op when the offer already
// left pending, which keeps the operation idempotent.
func (r *OfferRepository) MarkViewed(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE offers SET status = ?, viewed_at = ? WHERE id = ? AND status = ?`,
		models.OfferStatusViewed, time.Now(), id, models.OfferStatusPending)
	return err
}

// UpdateStatusCAS moves an offer out of pending/viewed. Returns
// ErrInvalidState when the offer has already reached a terminal status.
func (r *OfferRepository) UpdateStatusCAS(ctx context.Context, id int, toStatus string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE offers SET status = ? WHERE id = ? AND status IN (?, ?)`,
		toStatus, id, models.OfferStatusPending, models.OfferStatusViewed)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvalidState
	}
	return nil
}

// Accept runs the acceptance transaction: the winning offer becomes
// accepted, the task closes with accepted_offer_id set, and every competing
// pending/viewed offer is rejected. The task row is locked FOR UPDATE before
// any offer row, so concurrent accepts on the same task queue on a single
// lock and the second one observes the task already closed and fails a
// precondition; nothing here is a read-then-write race and no two accepts
// take offer locks in opposite orders.
func (r *OfferRepository) Accept(ctx context.Context, offerID, actorID int) (models.Task, []models.RejectedOffer, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Plain read first: task_id is immutable on an offer, locking here
	// would invert the task-then-offer lock order.
	var taskID int
	err = tx.QueryRowContext(ctx, `SELECT task_id FROM offers WHERE id = ?`, offerID).Scan(&taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrOfferNotFound
		}
		return models.Task{}, nil, err
	}

	task, err := scanTask(tx.QueryRowContext(ctx, taskSelect+` WHERE id = ? FOR UPDATE`, taskID))
	if err != nil {
		return models.Task{}, nil, err
	}

	var offerStatus string
	err = tx.QueryRowContext(ctx, `SELECT status FROM offers WHERE id = ? FOR UPDATE`, offerID).Scan(&offerStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrOfferNotFound
		}
		return models.Task{}, nil, err
	}

	if task.UserID != actorID {
		err = models.ErrForbidden
		return models.Task{}, nil, err
	}
	if !fsm.TaskAcceptingOffers(task.Status) {
		err = models.ErrTaskNotAcceptingOffers
		return models.Task{}, nil, err
	}
	if !fsm.OfferAcceptable(offerStatus) {
		err = models.ErrOfferNotAcceptable
		return models.Task{}, nil, err
	}

	rejected, err := competingOffers(ctx, tx, taskID, offerID)
	if err != nil {
		return models.Task{}, nil, err
	}

	res, err := tx.ExecContext(ctx, `UPDATE offers SET status = ? WHERE id = ? AND status IN (?, ?)`,
		models.OfferStatusAccepted, offerID, models.OfferStatusPending, models.OfferStatusViewed)
	if err != nil {
		return models.Task{}, nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = models.ErrOfferNotAcceptable
		return models.Task{}, nil, err
	}

	res, err = tx.ExecContext(ctx, `UPDATE tasks SET status = ?, accepted_offer_id = ? WHERE id = ? AND status IN (?, ?)`,
		models.TaskStatusAccepted, offerID, taskID, models.TaskStatusPublished, models.TaskStatusInConversation)
	if err != nil {
		return models.Task{}, nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = models.ErrTaskNotAcceptingOffers
		return models.Task{}, nil, err
	}

	if len(rejected) > 0 {
		if _, err = tx.ExecContext(ctx, `UPDATE offers SET status = ? WHERE task_id = ? AND id <> ? AND status IN (?, ?)`,
			models.OfferStatusRejected, taskID, offerID, models.OfferStatusPending, models.OfferStatusViewed); err != nil {
			return models.Task{}, nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Task{}, nil, err
	}

	task.Status = models.TaskStatusAccepted
	task.AcceptedOfferID = &offerID
	return task, rejected, nil
}

// competingOffers locks and returns every other live offer on the task,
// with the chat id each fan-out message goes to.
func competingOffers(ctx context.Context, tx *sql.Tx, taskID, offerID int) ([]models.RejectedOffer, error) {
	rows, err := tx.QueryContext(ctx, `
                SELECT o.id, o.pro_id, COALESCE(c.id, 0)
                FROM offers o
                LEFT JOIN chats c ON c.offer_id = o.id
                WHERE o.task_id = ? AND o.id <> ? AND o.status IN (?, ?)
                FOR UPDATE`,
		taskID, offerID, models.OfferStatusPending, models.OfferStatusViewed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rejected []models.RejectedOffer
	for rows.Next() {
		var ro models.RejectedOffer
		if err := rows.Scan(&ro.OfferID, &ro.ProID, &ro.ChatID); err != nil {
			return nil, err
		}
		rejected = append(rejected, ro)
	}
	return rejected, rows.Err()
}

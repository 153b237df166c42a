package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"naimuBack/internal/models"
)

func taskRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "category_id", "title", "description", "city", "postal_code",
		"latitude", "longitude", "budget_min", "budget_max", "urgency", "status",
		"top_tier", "top_start_at", "top_end_at", "accepted_offer_id",
		"created_at", "published_at",
	}).AddRow(1, 42, 7, "Fix the sink", "Leaking trap", "Amsterdam", "",
		nil, nil, nil, nil, models.UrgencyThisWeek, status,
		0, nil, nil, nil,
		time.Now(), time.Now())
}

// The task row must be locked before any offer row. Two accepts racing on
// the same task then queue on one lock instead of deadlocking, and the loser
// fails a precondition.
func TestAcceptLocksTaskBeforeOffer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT task_id FROM offers WHERE id = .$`).
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}).AddRow(1))
	mock.ExpectQuery(`FROM tasks\s+WHERE id = . FOR UPDATE`).
		WillReturnRows(taskRow(models.TaskStatusInConversation))
	mock.ExpectQuery(`SELECT status FROM offers WHERE id = . FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.OfferStatusViewed))
	mock.ExpectQuery(`LEFT JOIN chats`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pro_id", "chat_id"}).AddRow(6, 8, 101))
	mock.ExpectExec(`UPDATE offers SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tasks SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE offers SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &OfferRepository{DB: db}
	task, rejected, err := repo.Accept(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if task.Status != models.TaskStatusAccepted {
		t.Fatalf("task status = %q, want %q", task.Status, models.TaskStatusAccepted)
	}
	if task.AcceptedOfferID == nil || *task.AcceptedOfferID != 5 {
		t.Fatalf("accepted offer id = %v, want 5", task.AcceptedOfferID)
	}
	if len(rejected) != 1 || rejected[0].OfferID != 6 || rejected[0].ChatID != 101 {
		t.Fatalf("rejected = %+v", rejected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("statement order: %v", err)
	}
}

// A task already closed by a prior accept fails the precondition and rolls
// back; nothing gets past the task lock.
func TestAcceptClosedTaskFailsPrecondition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT task_id FROM offers WHERE id = .$`).
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}).AddRow(1))
	mock.ExpectQuery(`FROM tasks\s+WHERE id = . FOR UPDATE`).
		WillReturnRows(taskRow(models.TaskStatusAccepted))
	mock.ExpectQuery(`SELECT status FROM offers WHERE id = . FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.OfferStatusViewed))
	mock.ExpectRollback()

	repo := &OfferRepository{DB: db}
	_, _, err = repo.Accept(context.Background(), 5, 42)
	if !errors.Is(err, models.ErrTaskNotAcceptingOffers) {
		t.Fatalf("err = %v, want ErrTaskNotAcceptingOffers", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("statement order: %v", err)
	}
}

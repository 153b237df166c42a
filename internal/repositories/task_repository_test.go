package repositories

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"naimuBack/internal/models"
)

// Soft-cancel clears accepted_offer_id: the column only means something on
// accepted and later statuses.
func TestCancelClearsAcceptedOffer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM tasks WHERE id = . FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.TaskStatusAccepted))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE tasks SET status = ., accepted_offer_id = NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &TaskRepository{DB: db}
	deleted, err := repo.CancelOrDelete(context.Background(), 1)
	if err != nil {
		t.Fatalf("CancelOrDelete: %v", err)
	}
	if deleted {
		t.Fatal("expected soft cancel, not delete")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("statement order: %v", err)
	}
}
